package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"timekeep/backend/internal/model"
	"timekeep/backend/internal/repository"
	apperrors "timekeep/backend/pkg/errors"
)

// ── Mock TimeEntryRepository ──

type mockTimeEntryRepo struct {
	entries  map[string]*model.TimeEntry
	projects map[string]*model.Project
	seq      int
	// failProjects 对指定项目的写入返回错误，用于模拟单条持久化失败
	failProjects map[string]error
}

func newMockTimeEntryRepo() *mockTimeEntryRepo {
	return &mockTimeEntryRepo{
		entries:      make(map[string]*model.TimeEntry),
		projects:     make(map[string]*model.Project),
		failProjects: make(map[string]error),
	}
}

func (m *mockTimeEntryRepo) nextID() string {
	m.seq++
	return fmt.Sprintf("te-%03d", m.seq)
}

// sameSlot 判断两条目是否落在同一 (project, task, day) 槽位
func sameSlot(a, b *model.TimeEntry) bool {
	if a.ProjectID != b.ProjectID || a.DayOfWeek != b.DayOfWeek {
		return false
	}
	if a.TaskID == nil || b.TaskID == nil {
		return a.TaskID == nil && b.TaskID == nil
	}
	return *a.TaskID == *b.TaskID
}

func (m *mockTimeEntryRepo) find(e *model.TimeEntry) *model.TimeEntry {
	for _, existing := range m.entries {
		if existing.TenantID == e.TenantID && existing.UserID == e.UserID &&
			existing.WeekStartDate.Equal(e.WeekStartDate) && sameSlot(existing, e) {
			return existing
		}
	}
	return nil
}

func (m *mockTimeEntryRepo) Create(_ context.Context, entry *model.TimeEntry) error {
	if err := m.failProjects[entry.ProjectID]; err != nil {
		return err
	}
	if m.find(entry) != nil {
		return repository.ErrDuplicateTimeEntry
	}
	if entry.TimeEntryID == "" {
		entry.TimeEntryID = m.nextID()
	}
	stored := *entry
	m.entries[entry.TimeEntryID] = &stored
	return nil
}

func (m *mockTimeEntryRepo) GetByID(_ context.Context, tenantID, id string) (*model.TimeEntry, error) {
	if e, ok := m.entries[id]; ok && e.TenantID == tenantID {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeEntryRepo) FindByKey(_ context.Context, key repository.EntryKey) (*model.TimeEntry, error) {
	target := &model.TimeEntry{
		TenantID: key.TenantID, UserID: key.UserID, ProjectID: key.ProjectID,
		TaskID: key.TaskID, WeekStartDate: key.WeekStartDate, DayOfWeek: key.DayOfWeek,
	}
	if e := m.find(target); e != nil {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeEntryRepo) Update(_ context.Context, entry *model.TimeEntry) error {
	stored, ok := m.entries[entry.TimeEntryID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Hours = entry.Hours
	stored.Note = entry.Note
	return nil
}

func (m *mockTimeEntryRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func (m *mockTimeEntryRepo) ListByUserWeek(_ context.Context, tenantID, userID string, weekStart time.Time) ([]model.TimeEntry, error) {
	var result []model.TimeEntry
	for _, e := range m.entries {
		if e.TenantID == tenantID && e.UserID == userID && e.WeekStartDate.Equal(weekStart) {
			cp := *e
			cp.Project = m.projects[e.ProjectID]
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].TimeEntryID < result[j].TimeEntryID
	})
	return result, nil
}

func (m *mockTimeEntryRepo) Upsert(_ context.Context, entry *model.TimeEntry, keepExistingNote bool) (bool, error) {
	if err := m.failProjects[entry.ProjectID]; err != nil {
		return false, err
	}
	if existing := m.find(entry); existing != nil {
		existing.Hours = entry.Hours
		if !keepExistingNote {
			existing.Note = entry.Note
		}
		entry.TimeEntryID = existing.TimeEntryID
		entry.Note = existing.Note
		return false, nil
	}
	entry.TimeEntryID = m.nextID()
	stored := *entry
	m.entries[entry.TimeEntryID] = &stored
	return true, nil
}

func (m *mockTimeEntryRepo) InsertIfAbsent(_ context.Context, entry *model.TimeEntry) (bool, error) {
	if err := m.failProjects[entry.ProjectID]; err != nil {
		return false, err
	}
	if m.find(entry) != nil {
		return false, nil
	}
	entry.TimeEntryID = m.nextID()
	stored := *entry
	m.entries[entry.TimeEntryID] = &stored
	return true, nil
}

func (m *mockTimeEntryRepo) SumByDay(_ context.Context, userID string, weekStart time.Time) ([]repository.DayHours, error) {
	byDay := make(map[int]*repository.DayHours)
	for _, e := range m.entries {
		if e.UserID != userID || !e.WeekStartDate.Equal(weekStart) {
			continue
		}
		d, ok := byDay[e.DayOfWeek]
		if !ok {
			d = &repository.DayHours{DayOfWeek: e.DayOfWeek}
			byDay[e.DayOfWeek] = d
		}
		d.Hours += e.Hours
		d.Entries++
	}
	var result []repository.DayHours
	for _, d := range byDay {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DayOfWeek < result[j].DayOfWeek })
	return result, nil
}

func (m *mockTimeEntryRepo) SumForDay(_ context.Context, tenantID, userID string, weekStart time.Time, dayOfWeek int) (float64, error) {
	var total float64
	for _, e := range m.entries {
		if e.TenantID == tenantID && e.UserID == userID && e.WeekStartDate.Equal(weekStart) && e.DayOfWeek == dayOfWeek {
			total += e.Hours
		}
	}
	return total, nil
}

func (m *mockTimeEntryRepo) SumByProject(_ context.Context, projectID string) (float64, error) {
	var total float64
	for _, e := range m.entries {
		if e.ProjectID == projectID {
			total += e.Hours
		}
	}
	return total, nil
}

func (m *mockTimeEntryRepo) SumByUserProject(_ context.Context, userID string, filter repository.WeekFilter) ([]repository.ProjectHours, error) {
	byProject := make(map[string]*repository.ProjectHours)
	for _, e := range m.entries {
		if e.UserID != userID {
			continue
		}
		if filter.From != nil && e.WeekStartDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.WeekStartDate.After(*filter.To) {
			continue
		}
		p, ok := byProject[e.ProjectID]
		if !ok {
			p = &repository.ProjectHours{ProjectID: e.ProjectID}
			if proj := m.projects[e.ProjectID]; proj != nil {
				p.ProjectName = proj.Name
				p.ProjectCode = proj.Code
			}
			byProject[e.ProjectID] = p
		}
		p.Hours += e.Hours
	}
	var result []repository.ProjectHours
	for _, p := range byProject {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProjectID < result[j].ProjectID })
	return result, nil
}

// ── Mock TimesheetRepository ──

type mockTimesheetRepo struct {
	timesheets map[string]*model.Timesheet
	seq        int
	// staleUpdate 为 true 时 Update 模拟乐观锁冲突
	staleUpdate bool
}

func newMockTimesheetRepo() *mockTimesheetRepo {
	return &mockTimesheetRepo{timesheets: make(map[string]*model.Timesheet)}
}

func (m *mockTimesheetRepo) Create(_ context.Context, ts *model.Timesheet) error {
	for _, existing := range m.timesheets {
		if existing.TenantID == ts.TenantID && existing.UserID == ts.UserID && existing.WeekStartDate.Equal(ts.WeekStartDate) {
			return repository.ErrDuplicateTimesheet
		}
	}
	if ts.TimesheetID == "" {
		m.seq++
		ts.TimesheetID = fmt.Sprintf("ts-%03d", m.seq)
	}
	if ts.Version == 0 {
		ts.Version = 1
	}
	stored := *ts
	m.timesheets[ts.TimesheetID] = &stored
	return nil
}

func (m *mockTimesheetRepo) GetByID(_ context.Context, tenantID, id string) (*model.Timesheet, error) {
	if ts, ok := m.timesheets[id]; ok && ts.TenantID == tenantID {
		cp := *ts
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimesheetRepo) GetByKey(_ context.Context, tenantID, userID string, weekStart time.Time) (*model.Timesheet, error) {
	for _, ts := range m.timesheets {
		if ts.TenantID == tenantID && ts.UserID == userID && ts.WeekStartDate.Equal(weekStart) {
			cp := *ts
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimesheetRepo) Update(_ context.Context, ts *model.Timesheet) error {
	stored, ok := m.timesheets[ts.TimesheetID]
	if !ok || m.staleUpdate || stored.Version != ts.Version {
		return apperrors.ErrOptimisticLock
	}
	ts.Version++
	cp := *ts
	m.timesheets[ts.TimesheetID] = &cp
	return nil
}

func (m *mockTimesheetRepo) Delete(_ context.Context, id string) error {
	delete(m.timesheets, id)
	return nil
}

func (m *mockTimesheetRepo) ListByStatus(_ context.Context, tenantID, status string, offset, limit int) ([]model.Timesheet, int64, error) {
	return m.list(func(ts *model.Timesheet) bool {
		return ts.TenantID == tenantID && ts.Status == status
	}, offset, limit)
}

func (m *mockTimesheetRepo) ListByUser(_ context.Context, tenantID, userID string, offset, limit int) ([]model.Timesheet, int64, error) {
	return m.list(func(ts *model.Timesheet) bool {
		return ts.TenantID == tenantID && ts.UserID == userID
	}, offset, limit)
}

func (m *mockTimesheetRepo) list(match func(*model.Timesheet) bool, offset, limit int) ([]model.Timesheet, int64, error) {
	var all []model.Timesheet
	for _, ts := range m.timesheets {
		if match(ts) {
			all = append(all, *ts)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].WeekStartDate.After(all[j].WeekStartDate) })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Timesheet{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock MembershipChecker ──

type mockMembership struct {
	members map[string]bool // "tenant:user:project"
	err     error
}

func newMockMembership() *mockMembership {
	return &mockMembership{members: make(map[string]bool)}
}

func (m *mockMembership) add(tenantID, userID, projectID string) {
	m.members[tenantID+":"+userID+":"+projectID] = true
}

func (m *mockMembership) IsMember(_ context.Context, tenantID, userID, projectID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.members[tenantID+":"+userID+":"+projectID], nil
}

// ── Mock TimesheetPolicyRepository ──

type mockPolicyRepo struct {
	policies map[string]*model.TimesheetPolicy
}

func newMockPolicyRepo() *mockPolicyRepo {
	return &mockPolicyRepo{policies: make(map[string]*model.TimesheetPolicy)}
}

func (m *mockPolicyRepo) GetByTenant(_ context.Context, tenantID string) (*model.TimesheetPolicy, error) {
	if p, ok := m.policies[tenantID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}
