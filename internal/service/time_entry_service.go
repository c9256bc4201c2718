package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"timekeep/backend/config"
	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/model"
	"timekeep/backend/internal/repository"
	apperrors "timekeep/backend/pkg/errors"
	"timekeep/backend/pkg/weekcalc"
)

// TimeEntryService 工时条目业务接口
//
// 单条操作（Create / Update / Delete）均先经过 EditabilityGuard，遇到第一个失败条件即返回；
// 批量操作（BulkSync / CopyWeek）逐条收集结果，不因单条失败中止。
type TimeEntryService interface {
	ListWeek(ctx context.Context, tenantID, userID, weekStart string) ([]dto.TimeEntryResponse, error)
	Create(ctx context.Context, tenantID, userID string, req *dto.CreateTimeEntryRequest) (*dto.TimeEntryResponse, error)
	Update(ctx context.Context, tenantID, userID, id string, req *dto.UpdateTimeEntryRequest) (*dto.TimeEntryResponse, error)
	Delete(ctx context.Context, tenantID, userID, id string) error

	BulkSync(ctx context.Context, tenantID, userID string, req *dto.BulkSyncRequest) (*dto.BulkSyncResponse, error)
	CopyWeek(ctx context.Context, tenantID, userID string, req *dto.CopyWeekRequest) (*dto.CopyWeekResponse, error)
}

type timeEntryService struct {
	repo         *repository.Repository
	guard        EditabilityGuard
	policies     *policyResolver
	bulkMaxItems int
	logger       *zap.Logger
}

// NewTimeEntryService 创建 TimeEntryService 实例
func NewTimeEntryService(cfg *config.TimesheetConfig, repo *repository.Repository, logger *zap.Logger) TimeEntryService {
	return &timeEntryService{
		repo:         repo,
		guard:        NewEditabilityGuard(repo.Timesheet, logger),
		policies:     newPolicyResolver(cfg, repo.Policy, logger),
		bulkMaxItems: cfg.BulkMaxItems,
		logger:       logger,
	}
}

// ────────────────────── ListWeek ──────────────────────

func (s *timeEntryService) ListWeek(ctx context.Context, tenantID, userID, weekStart string) ([]dto.TimeEntryResponse, error) {
	week, err := parseWeek(weekStart)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.TimeEntry.ListByUserWeek(ctx, tenantID, userID, week)
	if err != nil {
		s.logger.Error("查询周工时失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toTimeEntryResponses(entries), nil
}

// ────────────────────── Create ──────────────────────

func (s *timeEntryService) Create(ctx context.Context, tenantID, userID string, req *dto.CreateTimeEntryRequest) (*dto.TimeEntryResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	week, err := parseWeek(req.WeekStartDate)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.Membership.IsMember(ctx, tenantID, userID, req.ProjectID)
	if err != nil {
		s.logger.Error("校验项目成员失败", zap.String("project_id", req.ProjectID), zap.Error(err))
		return nil, err
	}
	if !member {
		return nil, ErrNotProjectMember
	}

	if err := s.guard.CheckEditable(ctx, tenantID, userID, week); err != nil {
		return nil, err
	}

	// 唯一键冲突优先于每日上限
	existing, err := s.repo.TimeEntry.FindByKey(ctx, repository.EntryKey{
		TenantID:      tenantID,
		UserID:        userID,
		ProjectID:     req.ProjectID,
		TaskID:        req.TaskID,
		WeekStartDate: week,
		DayOfWeek:     *req.DayOfWeek,
	})
	switch {
	case err == nil && existing != nil:
		return nil, repository.ErrDuplicateTimeEntry
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("查询工时条目失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if err := s.checkDailyLimit(ctx, tenantID, userID, week, *req.DayOfWeek, *req.Hours, 0); err != nil {
		return nil, err
	}

	entry := &model.TimeEntry{
		TenantID:      tenantID,
		UserID:        userID,
		ProjectID:     req.ProjectID,
		TaskID:        req.TaskID,
		WeekStartDate: week,
		DayOfWeek:     *req.DayOfWeek,
		Hours:         *req.Hours,
		Note:          req.Note,
	}
	if err := s.repo.TimeEntry.Create(ctx, entry); err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.logger.Error("创建工时条目失败", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	resp := toTimeEntryResponse(entry)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *timeEntryService) Update(ctx context.Context, tenantID, userID, id string, req *dto.UpdateTimeEntryRequest) (*dto.TimeEntryResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	entry, err := s.loadOwned(ctx, tenantID, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckEditable(ctx, tenantID, userID, entry.WeekStartDate); err != nil {
		return nil, err
	}

	if req.Hours != nil {
		if err := s.checkDailyLimit(ctx, tenantID, userID, entry.WeekStartDate, entry.DayOfWeek, *req.Hours, entry.Hours); err != nil {
			return nil, err
		}
		entry.Hours = *req.Hours
	}
	if req.Note != nil {
		entry.Note = req.Note
	}

	if err := s.repo.TimeEntry.Update(ctx, entry); err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.logger.Error("更新工时条目失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	resp := toTimeEntryResponse(entry)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *timeEntryService) Delete(ctx context.Context, tenantID, userID, id string) error {
	entry, err := s.loadOwned(ctx, tenantID, userID, id)
	if err != nil {
		return err
	}
	if err := s.guard.CheckEditable(ctx, tenantID, userID, entry.WeekStartDate); err != nil {
		return err
	}

	if err := s.repo.TimeEntry.Delete(ctx, entry.TimeEntryID); err != nil {
		s.logger.Error("删除工时条目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *timeEntryService) loadOwned(ctx context.Context, tenantID, userID, id string) (*model.TimeEntry, error) {
	entry, err := s.repo.TimeEntry.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询工时条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrNotEntryOwner
	}
	return entry, nil
}

// checkDailyLimit 租户配置了 maxHoursPerDay 时校验当天合计；replaced 为被替换条目的原工时
func (s *timeEntryService) checkDailyLimit(ctx context.Context, tenantID, userID string, week time.Time, day int, hours, replaced float64) error {
	policy, err := s.policies.resolve(ctx, tenantID)
	if err != nil {
		return err
	}
	if policy.MaxHoursPerDay == nil {
		return nil
	}

	current, err := s.repo.TimeEntry.SumForDay(ctx, tenantID, userID, week, day)
	if err != nil {
		s.logger.Error("统计当日工时失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	total := weekcalc.Round2(current - replaced + hours)
	if total > *policy.MaxHoursPerDay {
		return apperrors.Wrap(ErrDailyLimitExceeded, "Daily hours limit exceeded: %g > %g", total, *policy.MaxHoursPerDay)
	}
	return nil
}
