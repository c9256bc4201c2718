package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"timekeep/backend/internal/model"
	pkgerrors "timekeep/backend/pkg/errors"
)

// TimesheetRepository 周报数据访问接口
type TimesheetRepository interface {
	Create(ctx context.Context, ts *model.Timesheet) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Timesheet, error)
	GetByKey(ctx context.Context, tenantID, userID string, weekStart time.Time) (*model.Timesheet, error)
	Update(ctx context.Context, ts *model.Timesheet) error
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, tenantID, status string, offset, limit int) ([]model.Timesheet, int64, error)
	ListByUser(ctx context.Context, tenantID, userID string, offset, limit int) ([]model.Timesheet, int64, error)
}

type timesheetRepo struct {
	db *gorm.DB
}

// NewTimesheetRepo 创建 TimesheetRepository 实例
func NewTimesheetRepo(db *gorm.DB) TimesheetRepository {
	return &timesheetRepo{db: db}
}

func (r *timesheetRepo) Create(ctx context.Context, ts *model.Timesheet) error {
	return translateError(r.db.WithContext(ctx).Create(ts).Error)
}

func (r *timesheetRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Timesheet, error) {
	var ts model.Timesheet
	err := r.db.WithContext(ctx).
		Where("timesheet_id = ? AND tenant_id = ?", id, tenantID).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timesheetRepo) GetByKey(ctx context.Context, tenantID, userID string, weekStart time.Time) (*model.Timesheet, error) {
	var ts model.Timesheet
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND week_start_date = ?", tenantID, userID, weekStart).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// Update 按 version 乐观锁更新状态与审核字段
func (r *timesheetRepo) Update(ctx context.Context, ts *model.Timesheet) error {
	oldVersion := ts.Version
	result := r.db.WithContext(ctx).
		Model(&model.Timesheet{}).
		Where("timesheet_id = ? AND version = ?", ts.TimesheetID, oldVersion).
		Updates(map[string]interface{}{
			"status":               ts.Status,
			"submitted_at":         ts.SubmittedAt,
			"submitted_by_user_id": ts.SubmittedByUserID,
			"reviewed_at":          ts.ReviewedAt,
			"reviewed_by_user_id":  ts.ReviewedByUserID,
			"review_note":          ts.ReviewNote,
			"version":              oldVersion + 1,
			"updated_at":           gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	ts.Version = oldVersion + 1
	return nil
}

func (r *timesheetRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("timesheet_id = ?", id).
		Delete(&model.Timesheet{}).Error
}

func (r *timesheetRepo) ListByStatus(ctx context.Context, tenantID, status string, offset, limit int) ([]model.Timesheet, int64, error) {
	var list []model.Timesheet
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Timesheet{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("week_start_date ASC, submitted_at ASC").
		Find(&list).Error
	return list, total, err
}

func (r *timesheetRepo) ListByUser(ctx context.Context, tenantID, userID string, offset, limit int) ([]model.Timesheet, int64, error) {
	var list []model.Timesheet
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Timesheet{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("week_start_date DESC").
		Find(&list).Error
	return list, total, err
}
