package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"timekeep/backend/internal/repository"
	apperrors "timekeep/backend/pkg/errors"
	"timekeep/backend/pkg/weekcalc"
)

// EditabilityGuard 判断某 (tenant, user, week) 的工时条目当前是否允许修改
type EditabilityGuard interface {
	CheckEditable(ctx context.Context, tenantID, userID string, weekStart time.Time) error
}

type editabilityGuard struct {
	timesheets repository.TimesheetRepository
	logger     *zap.Logger
}

// NewEditabilityGuard 创建 EditabilityGuard 实例
func NewEditabilityGuard(timesheets repository.TimesheetRepository, logger *zap.Logger) EditabilityGuard {
	return &editabilityGuard{timesheets: timesheets, logger: logger}
}

// CheckEditable 无周报视为隐式草稿；draft / rejected 可编辑；其余状态返回 Forbidden
func (g *editabilityGuard) CheckEditable(ctx context.Context, tenantID, userID string, weekStart time.Time) error {
	ts, err := g.timesheets.GetByKey(ctx, tenantID, userID, weekStart)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		g.logger.Error("查询周报失败",
			zap.String("user_id", userID),
			zap.String("week_start_date", weekcalc.FormatDate(weekStart)),
			zap.Error(err))
		return err
	}

	if ts.EntriesEditable() {
		return nil
	}
	return apperrors.Wrap(ErrEntriesLocked, "Cannot modify time entries. Timesheet status is %s", ts.Status)
}
