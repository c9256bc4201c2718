package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "timekeep/backend/pkg/errors"
)

// ── 持久层约束错误 ──

var (
	ErrDuplicateTimeEntry = apperrors.Conflict("Time entry already exists for this project, task and day")
	ErrDuplicateTimesheet = apperrors.Conflict("Timesheet already exists for this week")
	ErrHoursOutOfRange    = apperrors.BadRequest("Hours must be between 0 and 24")
	ErrDayOutOfRange      = apperrors.BadRequest("Day of week must be between 0 and 6")
	ErrUnknownProject     = apperrors.BadRequest("Project does not exist")
	ErrUnknownTask        = apperrors.BadRequest("Task does not exist")
	ErrInvalidStatus      = apperrors.BadRequest("Invalid timesheet status")
)

// constraintErrors 约束名 → 业务错误
// 与 migrations 中的 CONSTRAINT 命名保持一致
var constraintErrors = map[string]*apperrors.Error{
	"uq_time_entries_key":         ErrDuplicateTimeEntry,
	"uq_timesheets_user_week":     ErrDuplicateTimesheet,
	"ck_time_entries_hours":       ErrHoursOutOfRange,
	"ck_time_entries_day_of_week": ErrDayOutOfRange,
	"fk_time_entries_project":     ErrUnknownProject,
	"fk_time_entries_task":        ErrUnknownTask,
	"ck_timesheets_status":        ErrInvalidStatus,
}

// translateError 将 PostgreSQL 约束冲突翻译为业务错误
// 无法识别的约束原样返回
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.ConstraintName == "" {
		return err
	}
	if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return mapped
	}
	return err
}
