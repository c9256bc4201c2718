package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	TimeEntry  TimeEntryRepository
	Timesheet  TimesheetRepository
	Membership MembershipChecker
	Policy     TimesheetPolicyRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		TimeEntry:  NewTimeEntryRepo(db),
		Timesheet:  NewTimesheetRepo(db),
		Membership: NewMembershipRepo(db),
		Policy:     NewTimesheetPolicyRepo(db),
	}
}
