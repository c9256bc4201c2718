package service

import (
	"time"

	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/model"
	"timekeep/backend/pkg/weekcalc"
)

// ── 模型 → 响应 ──

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toTimesheetResponse(ts *model.Timesheet) dto.TimesheetResponse {
	return dto.TimesheetResponse{
		ID:                ts.TimesheetID,
		UserID:            ts.UserID,
		WeekStartDate:     weekcalc.FormatDate(ts.WeekStartDate),
		WeekEndDate:       weekcalc.FormatDate(weekcalc.WeekEnd(ts.WeekStartDate)),
		Status:            ts.Status,
		SubmittedAt:       formatTimePtr(ts.SubmittedAt),
		SubmittedByUserID: ts.SubmittedByUserID,
		ReviewedAt:        formatTimePtr(ts.ReviewedAt),
		ReviewedByUserID:  ts.ReviewedByUserID,
		ReviewNote:        ts.ReviewNote,
		Version:           ts.Version,
		CreatedAt:         formatTime(ts.CreatedAt),
		UpdatedAt:         formatTime(ts.UpdatedAt),
	}
}

func toTimeEntryResponse(e *model.TimeEntry) dto.TimeEntryResponse {
	resp := dto.TimeEntryResponse{
		ID:            e.TimeEntryID,
		ProjectID:     e.ProjectID,
		TaskID:        e.TaskID,
		WeekStartDate: weekcalc.FormatDate(e.WeekStartDate),
		DayOfWeek:     e.DayOfWeek,
		Date:          weekcalc.FormatDate(weekcalc.DayDate(e.WeekStartDate, e.DayOfWeek)),
		Hours:         weekcalc.Round2(e.Hours),
		Note:          e.Note,
		CreatedAt:     formatTime(e.CreatedAt),
		UpdatedAt:     formatTime(e.UpdatedAt),
	}
	if e.Project != nil {
		resp.ProjectName = e.Project.Name
		resp.ProjectCode = e.Project.Code
	}
	if e.Task != nil {
		resp.TaskName = e.Task.Name
	}
	return resp
}

func toTimeEntryResponses(entries []model.TimeEntry) []dto.TimeEntryResponse {
	result := make([]dto.TimeEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, toTimeEntryResponse(&entries[i]))
	}
	return result
}

// parseWeek 解析 week_start_date 参数
func parseWeek(s string) (time.Time, error) {
	t, err := weekcalc.ParseDate(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
