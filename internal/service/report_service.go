package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"timekeep/backend/config"
	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/repository"
	"timekeep/backend/pkg/weekcalc"
)

// ReportService 工时统计接口（只读；WeekView 会按需创建草稿周报）
// 所有工时合计保留两位小数
type ReportService interface {
	WeeklyHours(ctx context.Context, userID, weekStart string) (*dto.WeeklyHoursResponse, error)
	// ProjectHours 项目全局工时，跨租户汇总
	ProjectHours(ctx context.Context, projectID string) (*dto.ProjectHoursResponse, error)
	UserProjectStats(ctx context.Context, userID string, q *dto.UserProjectStatsQuery) (*dto.UserProjectStatsResponse, error)
	WeekView(ctx context.Context, tenantID, userID, weekStart string) (*dto.WeekViewResponse, error)
}

type reportService struct {
	repo     *repository.Repository
	policies *policyResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService 创建 ReportService 实例
func NewReportService(cfg *config.TimesheetConfig, repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{
		repo:     repo,
		policies: newPolicyResolver(cfg, repo.Policy, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── WeeklyHours ──────────────────────

func (s *reportService) WeeklyHours(ctx context.Context, userID, weekStart string) (*dto.WeeklyHoursResponse, error) {
	week, err := parseWeek(weekStart)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.TimeEntry.SumByDay(ctx, userID, week)
	if err != nil {
		s.logger.Error("统计周工时失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	dates := weekcalc.WeekDates(week)
	perDay := make(map[string]float64, weekcalc.DaysPerWeek)
	for _, d := range dates {
		perDay[d] = 0
	}

	var total float64
	var count int64
	for _, row := range rows {
		if !weekcalc.ValidDay(row.DayOfWeek) {
			continue
		}
		perDay[dates[row.DayOfWeek]] += row.Hours
		total += row.Hours
		count += row.Entries
	}
	for d, h := range perDay {
		perDay[d] = weekcalc.Round2(h)
	}

	return &dto.WeeklyHoursResponse{
		WeekStartDate: weekcalc.FormatDate(week),
		WeekEndDate:   weekcalc.FormatDate(weekcalc.WeekEnd(week)),
		TotalHours:    weekcalc.Round2(total),
		HoursPerDay:   perDay,
		EntriesCount:  int(count),
	}, nil
}

// ────────────────────── ProjectHours ──────────────────────

func (s *reportService) ProjectHours(ctx context.Context, projectID string) (*dto.ProjectHoursResponse, error) {
	total, err := s.repo.TimeEntry.SumByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("统计项目工时失败", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}
	return &dto.ProjectHoursResponse{ProjectID: projectID, TotalHours: weekcalc.Round2(total)}, nil
}

// ────────────────────── UserProjectStats ──────────────────────

func (s *reportService) UserProjectStats(ctx context.Context, userID string, q *dto.UserProjectStatsQuery) (*dto.UserProjectStatsResponse, error) {
	filter, err := s.statsFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.TimeEntry.SumByUserProject(ctx, userID, filter)
	if err != nil {
		s.logger.Error("统计用户项目工时失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var total float64
	for _, row := range rows {
		total += row.Hours
	}

	projects := make([]dto.ProjectStat, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, dto.ProjectStat{
			ProjectID:   row.ProjectID,
			ProjectName: row.ProjectName,
			ProjectCode: row.ProjectCode,
			TotalHours:  weekcalc.Round2(row.Hours),
			Percentage:  weekcalc.Percent(row.Hours, total),
		})
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].TotalHours > projects[j].TotalHours
	})

	return &dto.UserProjectStatsResponse{
		UserID:     userID,
		StartDate:  formatDatePtr(filter.From),
		EndDate:    formatDatePtr(filter.To),
		TotalHours: weekcalc.Round2(total),
		Projects:   projects,
	}, nil
}

// statsFilter week_start_date 优先，其次 start_date / end_date，均为空时取本周（周一起始）
func (s *reportService) statsFilter(q *dto.UserProjectStatsQuery) (repository.WeekFilter, error) {
	if q.WeekStartDate != "" {
		week, err := parseWeek(q.WeekStartDate)
		if err != nil {
			return repository.WeekFilter{}, err
		}
		return repository.WeekFilter{From: &week, To: &week}, nil
	}

	if q.StartDate != "" || q.EndDate != "" {
		var filter repository.WeekFilter
		if q.StartDate != "" {
			start, err := parseWeek(q.StartDate)
			if err != nil {
				return filter, err
			}
			filter.From = &start
		}
		if q.EndDate != "" {
			end, err := parseWeek(q.EndDate)
			if err != nil {
				return filter, err
			}
			filter.To = &end
		}
		if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
			return filter, ErrInvalidDateRange
		}
		return filter, nil
	}

	week := weekcalc.WeekStart(s.now(), int(time.Monday))
	return repository.WeekFilter{From: &week, To: &week}, nil
}

// ────────────────────── WeekView ──────────────────────

func (s *reportService) WeekView(ctx context.Context, tenantID, userID, weekStart string) (*dto.WeekViewResponse, error) {
	week, err := parseWeek(weekStart)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.TimeEntry.ListByUserWeek(ctx, tenantID, userID, week)
	if err != nil {
		s.logger.Error("查询周工时失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	ts, _, err := getOrCreateTimesheet(ctx, s.repo.Timesheet, tenantID, userID, week)
	if err != nil {
		s.logger.Error("获取周报失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	policy, err := s.policies.resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	daily := make([]float64, weekcalc.DaysPerWeek)
	var weekly float64
	byProject := make(map[string]*dto.ProjectBreakdown)
	var order []string

	for i := range entries {
		e := &entries[i]
		if weekcalc.ValidDay(e.DayOfWeek) {
			daily[e.DayOfWeek] += e.Hours
		}
		weekly += e.Hours

		pb, ok := byProject[e.ProjectID]
		if !ok {
			pb = &dto.ProjectBreakdown{ProjectID: e.ProjectID}
			if e.Project != nil {
				pb.ProjectName = e.Project.Name
				pb.ProjectCode = e.Project.Code
			}
			byProject[e.ProjectID] = pb
			order = append(order, e.ProjectID)
		}
		pb.TotalHours += e.Hours
	}

	for i := range daily {
		daily[i] = weekcalc.Round2(daily[i])
	}
	breakdown := make([]dto.ProjectBreakdown, 0, len(order))
	for _, id := range order {
		pb := byProject[id]
		pb.TotalHours = weekcalc.Round2(pb.TotalHours)
		breakdown = append(breakdown, *pb)
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].TotalHours > breakdown[j].TotalHours
	})

	return &dto.WeekViewResponse{
		WeekStartDate:    weekcalc.FormatDate(week),
		WeekEndDate:      weekcalc.FormatDate(weekcalc.WeekEnd(week)),
		Dates:            weekcalc.WeekDates(week),
		Entries:          toTimeEntryResponses(entries),
		DailyTotals:      daily,
		WeeklyTotal:      weekcalc.Round2(weekly),
		ExpectedHours:    policy.ExpectedWeeklyHours,
		ProjectBreakdown: breakdown,
		Timesheet:        toTimesheetResponse(ts),
	}, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := weekcalc.FormatDate(*t)
	return &s
}
