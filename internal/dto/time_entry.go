package dto

// ── 工时条目模块 DTO ──

// CreateTimeEntryRequest 创建工时条目请求
type CreateTimeEntryRequest struct {
	ProjectID     string   `json:"project_id"      binding:"required,uuid"`
	TaskID        *string  `json:"task_id"         binding:"omitempty,uuid"`
	WeekStartDate string   `json:"week_start_date" binding:"required"`
	DayOfWeek     *int     `json:"day_of_week"     binding:"required,min=0,max=6"`
	Hours         *float64 `json:"hours"           binding:"required,min=0,max=24"`
	Note          *string  `json:"note"            binding:"omitempty,max=2000"`
}

// UpdateTimeEntryRequest 更新工时条目请求（仅工时与备注可修改）
type UpdateTimeEntryRequest struct {
	Hours *float64 `json:"hours" binding:"omitempty,min=0,max=24"`
	Note  *string  `json:"note"  binding:"omitempty,max=2000"`
}

// TimeEntryResponse 工时条目响应
type TimeEntryResponse struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"project_id"`
	ProjectName   string  `json:"project_name,omitempty"`
	ProjectCode   string  `json:"project_code,omitempty"`
	TaskID        *string `json:"task_id"`
	TaskName      string  `json:"task_name,omitempty"`
	WeekStartDate string  `json:"week_start_date"`
	DayOfWeek     int     `json:"day_of_week"`
	Date          string  `json:"date"` // week_start_date + day_of_week
	Hours         float64 `json:"hours"`
	Note          *string `json:"note"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// ── 批量同步 ──

// BulkSyncRequest 批量同步一周工时请求
type BulkSyncRequest struct {
	WeekStartDate string          `json:"week_start_date" binding:"required"`
	Entries       []BulkEntryItem `json:"entries"         binding:"required,min=1"` // 条目在 Service 中逐条校验
}

// BulkEntryItem 批量同步中的单个条目
type BulkEntryItem struct {
	ProjectID string   `json:"project_id"  binding:"required,uuid"`
	TaskID    *string  `json:"task_id"     binding:"omitempty,uuid"`
	DayOfWeek *int     `json:"day_of_week" binding:"required,min=0,max=6"`
	Hours     *float64 `json:"hours"       binding:"required,min=0,max=24"`
	Note      *string  `json:"note"        binding:"omitempty,max=2000"`
}

// BulkSyncError 单条失败记录
type BulkSyncError struct {
	DayOfWeek int    `json:"day_of_week"`
	ProjectID string `json:"project_id"`
	Error     string `json:"error"`
}

// BulkSyncSummary 批量同步汇总
type BulkSyncSummary struct {
	CreatedCount   int `json:"created_count"`
	UpdatedCount   int `json:"updated_count"`
	ErrorCount     int `json:"error_count"`
	TotalRequested int `json:"total_requested"`
}

// BulkSyncResponse 批量同步结果（非原子，部分成功为正常结果）
type BulkSyncResponse struct {
	Created []TimeEntryResponse `json:"created"`
	Updated []TimeEntryResponse `json:"updated"`
	Errors  []BulkSyncError     `json:"errors"`
	Summary BulkSyncSummary     `json:"summary"`
}

// ── 复制周 ──

// CopyWeekRequest 复制周请求
type CopyWeekRequest struct {
	FromWeekStart     string `json:"from_week_start"    binding:"required"`
	ToWeekStart       string `json:"to_week_start"      binding:"required"`
	OverwriteExisting bool   `json:"overwrite_existing"`
	CopyNotes         bool   `json:"copy_notes"`
}

// CopySkip 被跳过的条目
type CopySkip struct {
	ProjectID string  `json:"project_id"`
	TaskID    *string `json:"task_id"`
	DayOfWeek int     `json:"day_of_week"`
	Reason    string  `json:"reason"`
}

// CopyWeekResponse 复制周结果
// CopiedCount 仅统计新插入的条目，覆盖的条目计入 OverwrittenCount
type CopyWeekResponse struct {
	CopiedCount      int                 `json:"copied_count"`
	SkippedCount     int                 `json:"skipped_count"`
	OverwrittenCount int                 `json:"overwritten_count"`
	Entries          []TimeEntryResponse `json:"entries"`
	Skipped          []CopySkip          `json:"skipped"`
}
