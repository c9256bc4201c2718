package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"timekeep/backend/config"
	"timekeep/backend/internal/repository"
)

// tenantPolicy 生效的租户策略（已合并配置默认值）
type tenantPolicy struct {
	WeekStartDay        int
	MaxHoursPerDay      *float64 // nil 表示不限制
	ExpectedWeeklyHours float64
}

// policyResolver 读取租户策略，未配置时回落到 timesheet 配置
type policyResolver struct {
	repo     repository.TimesheetPolicyRepository
	defaults config.TimesheetConfig
	logger   *zap.Logger
}

func newPolicyResolver(cfg *config.TimesheetConfig, repo repository.TimesheetPolicyRepository, logger *zap.Logger) *policyResolver {
	return &policyResolver{repo: repo, defaults: *cfg, logger: logger}
}

func (p *policyResolver) resolve(ctx context.Context, tenantID string) (tenantPolicy, error) {
	result := tenantPolicy{
		WeekStartDay:        p.defaults.DefaultWeekStartDay,
		ExpectedWeeklyHours: p.defaults.ExpectedWeeklyHours,
	}

	policy, err := p.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, nil
		}
		p.logger.Error("查询租户策略失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return result, err
	}

	result.WeekStartDay = policy.WeekStartDay
	result.MaxHoursPerDay = policy.MaxHoursPerDay
	if policy.ExpectedWeeklyHours != nil {
		result.ExpectedWeeklyHours = *policy.ExpectedWeeklyHours
	}
	return result, nil
}
