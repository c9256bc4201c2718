package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timekeep/backend/internal/model"
)

// EntryKey 工时条目唯一键
type EntryKey struct {
	TenantID      string
	UserID        string
	ProjectID     string
	TaskID        *string
	WeekStartDate time.Time
	DayOfWeek     int
}

// DayHours 某一天的工时合计
type DayHours struct {
	DayOfWeek int
	Hours     float64
	Entries   int64
}

// ProjectHours 某项目的工时合计
type ProjectHours struct {
	ProjectID   string
	ProjectName string
	ProjectCode string
	Hours       float64
}

// WeekFilter week_start_date 闭区间过滤，nil 表示不限
type WeekFilter struct {
	From *time.Time
	To   *time.Time
}

// TimeEntryRepository 工时条目数据访问接口
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, tenantID, id string) (*model.TimeEntry, error)
	FindByKey(ctx context.Context, key EntryKey) (*model.TimeEntry, error)
	Update(ctx context.Context, entry *model.TimeEntry) error
	Delete(ctx context.Context, id string) error
	ListByUserWeek(ctx context.Context, tenantID, userID string, weekStart time.Time) ([]model.TimeEntry, error)

	// Upsert 原子插入或更新（按唯一键冲突），返回是否为新插入。
	// keepExistingNote 为 true 时冲突行保留原备注。
	Upsert(ctx context.Context, entry *model.TimeEntry, keepExistingNote bool) (bool, error)
	// InsertIfAbsent 唯一键不存在时插入，返回是否插入
	InsertIfAbsent(ctx context.Context, entry *model.TimeEntry) (bool, error)

	// ── 聚合 ──
	SumByDay(ctx context.Context, userID string, weekStart time.Time) ([]DayHours, error)
	SumForDay(ctx context.Context, tenantID, userID string, weekStart time.Time, dayOfWeek int) (float64, error)
	SumByProject(ctx context.Context, projectID string) (float64, error)
	SumByUserProject(ctx context.Context, userID string, filter WeekFilter) ([]ProjectHours, error)
}

type timeEntryRepo struct {
	db *gorm.DB
}

// NewTimeEntryRepo 创建 TimeEntryRepository 实例
func NewTimeEntryRepo(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepo{db: db}
}

func (r *timeEntryRepo) Create(ctx context.Context, entry *model.TimeEntry) error {
	return translateError(r.db.WithContext(ctx).Omit("Project", "Task").Create(entry).Error)
}

func (r *timeEntryRepo) GetByID(ctx context.Context, tenantID, id string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("time_entry_id = ? AND tenant_id = ?", id, tenantID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) FindByKey(ctx context.Context, key EntryKey) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND project_id = ? AND week_start_date = ? AND day_of_week = ?",
			key.TenantID, key.UserID, key.ProjectID, key.WeekStartDate, key.DayOfWeek)
	if key.TaskID != nil {
		q = q.Where("task_id = ?", *key.TaskID)
	} else {
		q = q.Where("task_id IS NULL")
	}
	if err := q.First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) Update(ctx context.Context, entry *model.TimeEntry) error {
	err := r.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Where("time_entry_id = ?", entry.TimeEntryID).
		Updates(map[string]interface{}{
			"hours":      entry.Hours,
			"note":       entry.Note,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
	return translateError(err)
}

func (r *timeEntryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("time_entry_id = ?", id).
		Delete(&model.TimeEntry{}).Error
}

func (r *timeEntryRepo) ListByUserWeek(ctx context.Context, tenantID, userID string, weekStart time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Task").
		Where("tenant_id = ? AND user_id = ? AND week_start_date = ?", tenantID, userID, weekStart).
		Order("day_of_week ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

// ── 原子写入 ──
// 单条语句即单独事务，消除批量操作中“先查后写”的竞争窗口

const upsertEntrySQL = `
INSERT INTO time_entries
	(time_entry_id, tenant_id, user_id, project_id, task_id, week_start_date, day_of_week, hours, note, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
ON CONFLICT ON CONSTRAINT uq_time_entries_key DO UPDATE SET
	hours = EXCLUDED.hours,
	note = CASE WHEN ? THEN time_entries.note ELSE EXCLUDED.note END,
	updated_at = NOW()
RETURNING time_entry_id, note, created_at, updated_at, (xmax = 0) AS inserted`

const insertEntryIfAbsentSQL = `
INSERT INTO time_entries
	(time_entry_id, tenant_id, user_id, project_id, task_id, week_start_date, day_of_week, hours, note, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
ON CONFLICT ON CONSTRAINT uq_time_entries_key DO NOTHING
RETURNING time_entry_id, note, created_at, updated_at, TRUE AS inserted`

type writtenRow struct {
	TimeEntryID string
	Note        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Inserted    bool
}

func (r *timeEntryRepo) Upsert(ctx context.Context, entry *model.TimeEntry, keepExistingNote bool) (bool, error) {
	args := append(insertArgs(entry), keepExistingNote)
	return r.write(ctx, upsertEntrySQL, args, entry)
}

func (r *timeEntryRepo) InsertIfAbsent(ctx context.Context, entry *model.TimeEntry) (bool, error) {
	return r.write(ctx, insertEntryIfAbsentSQL, insertArgs(entry), entry)
}

func (r *timeEntryRepo) write(ctx context.Context, query string, args []interface{}, entry *model.TimeEntry) (bool, error) {
	var row writtenRow
	result := r.db.WithContext(ctx).Raw(query, args...).Scan(&row)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	entry.TimeEntryID = row.TimeEntryID
	entry.Note = row.Note
	entry.CreatedAt = row.CreatedAt
	entry.UpdatedAt = row.UpdatedAt
	return row.Inserted, nil
}

func insertArgs(entry *model.TimeEntry) []interface{} {
	return []interface{}{
		uuid.New().String(),
		entry.TenantID,
		entry.UserID,
		entry.ProjectID,
		entry.TaskID,
		entry.WeekStartDate,
		entry.DayOfWeek,
		entry.Hours,
		entry.Note,
	}
}

// ── 聚合 ──

func (r *timeEntryRepo) SumByDay(ctx context.Context, userID string, weekStart time.Time) ([]DayHours, error) {
	var rows []DayHours
	err := r.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Select("day_of_week, COALESCE(SUM(hours), 0) AS hours, COUNT(*) AS entries").
		Where("user_id = ? AND week_start_date = ?", userID, weekStart).
		Group("day_of_week").
		Order("day_of_week ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *timeEntryRepo) SumForDay(ctx context.Context, tenantID, userID string, weekStart time.Time, dayOfWeek int) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("tenant_id = ? AND user_id = ? AND week_start_date = ? AND day_of_week = ?",
			tenantID, userID, weekStart, dayOfWeek).
		Scan(&total).Error
	return total, err
}

// SumByProject 项目全局工时合计（不区分租户）
func (r *timeEntryRepo) SumByProject(ctx context.Context, projectID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("project_id = ?", projectID).
		Scan(&total).Error
	return total, err
}

func (r *timeEntryRepo) SumByUserProject(ctx context.Context, userID string, filter WeekFilter) ([]ProjectHours, error) {
	var rows []ProjectHours
	q := r.db.WithContext(ctx).
		Table("time_entries AS e").
		Select("e.project_id, p.name AS project_name, p.code AS project_code, COALESCE(SUM(e.hours), 0) AS hours").
		Joins("JOIN projects AS p ON p.project_id = e.project_id").
		Where("e.user_id = ?", userID)
	if filter.From != nil {
		q = q.Where("e.week_start_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("e.week_start_date <= ?", *filter.To)
	}
	err := q.Group("e.project_id, p.name, p.code").
		Order("hours DESC").
		Scan(&rows).Error
	return rows, err
}
