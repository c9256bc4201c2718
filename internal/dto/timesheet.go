package dto

// ── 周报模块 DTO ──

// CreateTimesheetRequest 创建周报请求
type CreateTimesheetRequest struct {
	WeekStartDate string `json:"week_start_date" binding:"required"` // "2025-01-06"
}

// ReviewTimesheetRequest 审批 / 驳回请求（驳回时 note 必填，由 Service 校验）
type ReviewTimesheetRequest struct {
	Note *string `json:"note" binding:"omitempty,max=2000"`
}

// TimesheetResponse 周报信息响应
type TimesheetResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	WeekStartDate     string  `json:"week_start_date"`
	WeekEndDate       string  `json:"week_end_date"`
	Status            string  `json:"status"`
	SubmittedAt       *string `json:"submitted_at"`
	SubmittedByUserID *string `json:"submitted_by_user_id"`
	ReviewedAt        *string `json:"reviewed_at"`
	ReviewedByUserID  *string `json:"reviewed_by_user_id"`
	ReviewNote        *string `json:"review_note"`
	Version           int     `json:"version"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// CurrentTimesheetResponse 当前周周报（不存在时自动创建草稿）
type CurrentTimesheetResponse struct {
	Timesheet TimesheetResponse `json:"timesheet"`
	Created   bool              `json:"created"`
}

// RecallTimesheetResponse 撤回结果，附带状态变化供审计展示
type RecallTimesheetResponse struct {
	Timesheet      TimesheetResponse `json:"timesheet"`
	PreviousStatus string            `json:"previous_status"`
	NewStatus      string            `json:"new_status"`
}
