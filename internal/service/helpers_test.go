package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"timekeep/backend/config"
	"timekeep/backend/internal/model"
	"timekeep/backend/internal/repository"
	"timekeep/backend/pkg/weekcalc"
)

// ── 测试辅助 ──

const (
	tenantA  = "tenant-a"
	tenantB  = "tenant-b"
	userU    = "user-u"
	userV    = "user-v"
	managerM = "manager-m"

	projectP1 = "11111111-1111-4111-8111-111111111111"
	projectP2 = "22222222-2222-4222-8222-222222222222"
	projectP3 = "33333333-3333-4333-8333-333333333333"
	taskT1    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
)

type testEnv struct {
	repo       *repository.Repository
	entries    *mockTimeEntryRepo
	timesheets *mockTimesheetRepo
	members    *mockMembership
	policies   *mockPolicyRepo
	cfg        *config.TimesheetConfig
}

func newTestEnv() *testEnv {
	env := &testEnv{
		entries:    newMockTimeEntryRepo(),
		timesheets: newMockTimesheetRepo(),
		members:    newMockMembership(),
		policies:   newMockPolicyRepo(),
		cfg: &config.TimesheetConfig{
			DefaultWeekStartDay: 1,
			ExpectedWeeklyHours: 40,
			BulkMaxItems:        10,
			MembershipCacheTTL:  time.Minute,
		},
	}
	env.repo = &repository.Repository{
		TimeEntry:  env.entries,
		Timesheet:  env.timesheets,
		Membership: env.members,
		Policy:     env.policies,
	}
	env.entries.projects[projectP1] = &model.Project{ProjectID: projectP1, TenantID: tenantA, Name: "Website", Code: "WEB"}
	env.entries.projects[projectP2] = &model.Project{ProjectID: projectP2, TenantID: tenantA, Name: "Mobile", Code: "MOB"}
	return env
}

func (e *testEnv) timesheetService() *timesheetService {
	return NewTimesheetService(e.cfg, e.repo, zap.NewNop()).(*timesheetService)
}

func (e *testEnv) timeEntryService() TimeEntryService {
	return NewTimeEntryService(e.cfg, e.repo, zap.NewNop())
}

func (e *testEnv) reportService() *reportService {
	return NewReportService(e.cfg, e.repo, zap.NewNop()).(*reportService)
}

// seedTimesheet 直接写入指定状态的周报
func (e *testEnv) seedTimesheet(id, tenantID, userID, week, status string) *model.Timesheet {
	ts := &model.Timesheet{
		TimesheetID:   id,
		TenantID:      tenantID,
		UserID:        userID,
		WeekStartDate: date(week),
		Status:        status,
	}
	_ = e.timesheets.Create(context.Background(), ts)
	return ts
}

// seedEntry 直接写入工时条目
func (e *testEnv) seedEntry(tenantID, userID, projectID, week string, day int, hours float64, note *string) *model.TimeEntry {
	entry := &model.TimeEntry{
		TenantID:      tenantID,
		UserID:        userID,
		ProjectID:     projectID,
		WeekStartDate: date(week),
		DayOfWeek:     day,
		Hours:         hours,
		Note:          note,
	}
	_ = e.entries.Create(context.Background(), entry)
	return entry
}

func date(s string) time.Time {
	t, err := weekcalc.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock(s string) func() time.Time {
	t := date(s).Add(10 * time.Hour)
	return func() time.Time { return t }
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
