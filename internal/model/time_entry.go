package model

import "time"

// TimeEntry 工时条目表 — 对应 time_entries
// 唯一键 (tenant, user, project, task, week_start_date, day_of_week)；
// 与 Timesheet 无外键，按 (tenant, user, week) 关联
type TimeEntry struct {
	TimeEntryID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_entry_id"`
	TenantID      string    `gorm:"type:uuid;not null"                             json:"tenant_id"`
	UserID        string    `gorm:"type:uuid;not null"                             json:"user_id"`
	ProjectID     string    `gorm:"type:uuid;not null"                             json:"project_id"`
	TaskID        *string   `gorm:"type:uuid"                                      json:"task_id,omitempty"`
	WeekStartDate time.Time `gorm:"type:date;not null"                             json:"week_start_date"`
	DayOfWeek     int       `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0-6，相对 week_start_date 的天数
	Hours         float64   `gorm:"type:numeric(5,2);not null"                     json:"hours"`
	Note          *string   `gorm:"type:text"                                      json:"note,omitempty"`
	BaseModel

	// 关联（只读，用于周视图展示名称）
	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
	Task    *Task    `gorm:"foreignKey:TaskID;references:TaskID"       json:"task,omitempty"`
}

// TableName 指定表名
func (TimeEntry) TableName() string { return "time_entries" }
