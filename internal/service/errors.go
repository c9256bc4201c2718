package service

import (
	apperrors "timekeep/backend/pkg/errors"
)

// ── 周报模块业务错误 ──

var (
	ErrTimesheetNotFound  = apperrors.NotFound("Timesheet not found")
	ErrTimesheetExists    = apperrors.Conflict("Timesheet already exists for this week")
	ErrInvalidTransition  = apperrors.BadRequest("Invalid timesheet status transition")
	ErrReviewNoteRequired = apperrors.BadRequest("Review note required")
	ErrAlreadyReviewed    = apperrors.BadRequest("Cannot recall timesheet that has already been reviewed")
	ErrNotTimesheetOwner  = apperrors.Forbidden("You can only modify your own timesheets")
)

// ── 工时条目模块业务错误 ──

var (
	ErrEntriesLocked      = apperrors.Forbidden("Cannot modify time entries")
	ErrEntryNotFound      = apperrors.NotFound("Time entry not found")
	ErrNotEntryOwner      = apperrors.Forbidden("You can only modify your own time entries")
	ErrNotProjectMember   = apperrors.Forbidden("User is not a member of this project")
	ErrDailyLimitExceeded = apperrors.BadRequest("Daily hours limit exceeded")
	ErrInvalidEntry       = apperrors.BadRequest("Invalid time entry")
	ErrBulkTooLarge       = apperrors.BadRequest("Too many entries in one request")
	ErrSameWeek           = apperrors.BadRequest("Source and target weeks must differ")
	ErrEntryExists        = apperrors.Conflict("Entry already exists")
)

// ── 通用参数错误 ──

var (
	ErrInvalidDate      = apperrors.BadRequest("Invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange = apperrors.BadRequest("start_date must not be after end_date")
)
