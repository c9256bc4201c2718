package model

// TimesheetPolicy 租户周报策略表 — 对应 timesheet_policies（单租户单行）
// MaxHoursPerDay 为空表示不限制每日工时
type TimesheetPolicy struct {
	TenantID            string   `gorm:"type:uuid;primaryKey"                json:"tenant_id"`
	MaxHoursPerDay      *float64 `gorm:"type:numeric(4,2)"                   json:"max_hours_per_day,omitempty"`
	WeekStartDay        int      `gorm:"type:smallint;not null;default:1"    json:"week_start_day"` // 0=周日 … 6=周六
	ExpectedWeeklyHours *float64 `gorm:"type:numeric(5,2)"                   json:"expected_weekly_hours,omitempty"`
	BaseModel
}

// TableName 指定表名
func (TimesheetPolicy) TableName() string { return "timesheet_policies" }
