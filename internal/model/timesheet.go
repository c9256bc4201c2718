package model

import "time"

// 周报状态
const (
	TimesheetStatusDraft     = "draft"
	TimesheetStatusSubmitted = "submitted"
	TimesheetStatusApproved  = "approved"
	TimesheetStatusRejected  = "rejected"
)

// Timesheet 周报表 — 对应 timesheets
// 唯一键 (tenant, user, week_start_date)
type Timesheet struct {
	TimesheetID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timesheet_id"`
	TenantID          string     `gorm:"type:uuid;not null"                             json:"tenant_id"`
	UserID            string     `gorm:"type:uuid;not null"                             json:"user_id"`
	WeekStartDate     time.Time  `gorm:"type:date;not null"                             json:"week_start_date"`
	Status            string     `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | submitted | approved | rejected
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	SubmittedByUserID *string    `gorm:"type:uuid"                                      json:"submitted_by_user_id,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	ReviewedByUserID  *string    `gorm:"type:uuid"                                      json:"reviewed_by_user_id,omitempty"`
	ReviewNote        *string    `gorm:"type:text"                                      json:"review_note,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Timesheet) TableName() string { return "timesheets" }

// EntriesEditable 报告该周报状态下是否允许修改工时条目
func (t *Timesheet) EntriesEditable() bool {
	return t.Status == TimesheetStatusDraft || t.Status == TimesheetStatusRejected
}
