package dto

// ── 统计报表 DTO ──

// WeeklyHoursResponse 周工时汇总
// HoursPerDay 固定包含 7 个日期键，无数据的日期为 0
type WeeklyHoursResponse struct {
	WeekStartDate string             `json:"week_start_date"`
	WeekEndDate   string             `json:"week_end_date"`
	TotalHours    float64            `json:"total_hours"`
	HoursPerDay   map[string]float64 `json:"hours_per_day"`
	EntriesCount  int                `json:"entries_count"`
}

// ProjectHoursResponse 项目总工时
type ProjectHoursResponse struct {
	ProjectID  string  `json:"project_id"`
	TotalHours float64 `json:"total_hours"`
}

// UserProjectStatsQuery 用户项目占比查询参数
// week_start_date 优先；否则按 start_date / end_date 区间；都为空时取本周（周一起始）
type UserProjectStatsQuery struct {
	WeekStartDate string `form:"week_start_date"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
}

// ProjectStat 单项目工时及占比
type ProjectStat struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ProjectCode string  `json:"project_code"`
	TotalHours  float64 `json:"total_hours"`
	Percentage  float64 `json:"percentage"`
}

// UserProjectStatsResponse 用户项目占比统计
type UserProjectStatsResponse struct {
	UserID     string        `json:"user_id"`
	StartDate  *string       `json:"start_date"`
	EndDate    *string       `json:"end_date"`
	TotalHours float64       `json:"total_hours"`
	Projects   []ProjectStat `json:"projects"`
}

// ProjectBreakdown 周视图中的项目小计
type ProjectBreakdown struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ProjectCode string  `json:"project_code"`
	TotalHours  float64 `json:"total_hours"`
}

// WeekViewResponse 周编辑视图
type WeekViewResponse struct {
	WeekStartDate    string              `json:"week_start_date"`
	WeekEndDate      string              `json:"week_end_date"`
	Dates            []string            `json:"dates"`
	Entries          []TimeEntryResponse `json:"entries"`
	DailyTotals      []float64           `json:"daily_totals"` // 按 day_of_week 索引，长度 7
	WeeklyTotal      float64             `json:"weekly_total"`
	ExpectedHours    float64             `json:"expected_hours"`
	ProjectBreakdown []ProjectBreakdown  `json:"project_breakdown"`
	Timesheet        TimesheetResponse   `json:"timesheet"`
}
