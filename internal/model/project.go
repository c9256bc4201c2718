package model

import "time"

// Project 项目表 — 对应 projects（由项目管理子系统维护，本服务只读）
type Project struct {
	ProjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"project_id"`
	TenantID  string `gorm:"type:uuid;not null"                             json:"tenant_id"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	Code      string `gorm:"type:varchar(50);not null;default:''"           json:"code"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

func (Project) TableName() string { return "projects" }

// Task 任务表 — 对应 tasks
type Task struct {
	TaskID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	ProjectID string `gorm:"type:uuid;not null"                             json:"project_id"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

func (Task) TableName() string { return "tasks" }

// ProjectMembership 项目成员关系表 — 对应 project_memberships
type ProjectMembership struct {
	MembershipID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"membership_id"`
	TenantID     string    `gorm:"type:uuid;not null"                             json:"tenant_id"`
	ProjectID    string    `gorm:"type:uuid;not null"                             json:"project_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Role         string    `gorm:"type:varchar(20);not null;default:'member'"     json:"role"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (ProjectMembership) TableName() string { return "project_memberships" }
