package repository

import (
	"context"

	"gorm.io/gorm"

	"timekeep/backend/internal/model"
)

// TimesheetPolicyRepository 租户周报策略数据访问接口
type TimesheetPolicyRepository interface {
	// GetByTenant 未配置策略时返回 gorm.ErrRecordNotFound
	GetByTenant(ctx context.Context, tenantID string) (*model.TimesheetPolicy, error)
}

type timesheetPolicyRepo struct {
	db *gorm.DB
}

// NewTimesheetPolicyRepo 创建 TimesheetPolicyRepository 实例
func NewTimesheetPolicyRepo(db *gorm.DB) TimesheetPolicyRepository {
	return &timesheetPolicyRepo{db: db}
}

func (r *timesheetPolicyRepo) GetByTenant(ctx context.Context, tenantID string) (*model.TimesheetPolicy, error) {
	var policy model.TimesheetPolicy
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}
