package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"timekeep/backend/config"
	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/model"
	"timekeep/backend/internal/repository"
	apperrors "timekeep/backend/pkg/errors"
	"timekeep/backend/pkg/metrics"
	"timekeep/backend/pkg/weekcalc"
)

// TimesheetService 周报生命周期接口
//
// 状态流转：
//
//	draft ──submit──▶ submitted ──approve──▶ approved（终态）
//	  ▲                   │
//	  └──────recall───────┤
//	                      └──reject──▶ rejected（条目可编辑，但无法再次提交）
type TimesheetService interface {
	Create(ctx context.Context, tenantID, userID string, req *dto.CreateTimesheetRequest) (*dto.TimesheetResponse, error)
	Get(ctx context.Context, tenantID, id string) (*dto.TimesheetResponse, error)
	// GetOrCreateCurrent weekStartDay 为 nil 时使用租户策略
	GetOrCreateCurrent(ctx context.Context, tenantID, userID string, weekStartDay *int) (*dto.CurrentTimesheetResponse, error)
	Submit(ctx context.Context, tenantID, id, requesterID string) (*dto.TimesheetResponse, error)
	Approve(ctx context.Context, tenantID, id, reviewerID string, note *string) (*dto.TimesheetResponse, error)
	Reject(ctx context.Context, tenantID, id, reviewerID string, note *string) (*dto.TimesheetResponse, error)
	Recall(ctx context.Context, tenantID, id, requesterID string) (*dto.RecallTimesheetResponse, error)
	Remove(ctx context.Context, tenantID, id, requesterID string) error
	ListPending(ctx context.Context, tenantID string, offset, limit int) ([]dto.TimesheetResponse, int64, error)
	ListMine(ctx context.Context, tenantID, userID string, offset, limit int) ([]dto.TimesheetResponse, int64, error)
}

type timesheetService struct {
	repo     *repository.Repository
	policies *policyResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewTimesheetService 创建 TimesheetService 实例
func NewTimesheetService(cfg *config.TimesheetConfig, repo *repository.Repository, logger *zap.Logger) TimesheetService {
	return &timesheetService{
		repo:     repo,
		policies: newPolicyResolver(cfg, repo.Policy, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Create ──────────────────────

func (s *timesheetService) Create(ctx context.Context, tenantID, userID string, req *dto.CreateTimesheetRequest) (*dto.TimesheetResponse, error) {
	weekStart, err := parseWeek(req.WeekStartDate)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.Timesheet.GetByKey(ctx, tenantID, userID, weekStart)
	if err == nil {
		return nil, ErrTimesheetExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询周报失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	ts := newDraft(tenantID, userID, weekStart)
	if err := s.repo.Timesheet.Create(ctx, ts); err != nil {
		if errors.Is(err, repository.ErrDuplicateTimesheet) {
			return nil, ErrTimesheetExists
		}
		s.logger.Error("创建周报失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toTimesheetResponse(ts)
	return &resp, nil
}

// ────────────────────── Get ──────────────────────

func (s *timesheetService) Get(ctx context.Context, tenantID, id string) (*dto.TimesheetResponse, error) {
	ts, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toTimesheetResponse(ts)
	return &resp, nil
}

// ────────────────────── GetOrCreateCurrent ──────────────────────

func (s *timesheetService) GetOrCreateCurrent(ctx context.Context, tenantID, userID string, weekStartDay *int) (*dto.CurrentTimesheetResponse, error) {
	var startDay int
	if weekStartDay != nil {
		startDay = *weekStartDay
	} else {
		policy, err := s.policies.resolve(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		startDay = policy.WeekStartDay
	}

	weekStart := weekcalc.WeekStart(s.now(), startDay)
	ts, created, err := getOrCreateTimesheet(ctx, s.repo.Timesheet, tenantID, userID, weekStart)
	if err != nil {
		s.logger.Error("获取当前周报失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return &dto.CurrentTimesheetResponse{
		Timesheet: toTimesheetResponse(ts),
		Created:   created,
	}, nil
}

// ────────────────────── Submit ──────────────────────

func (s *timesheetService) Submit(ctx context.Context, tenantID, id, requesterID string) (*dto.TimesheetResponse, error) {
	ts, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if ts.Status != model.TimesheetStatusDraft {
		return nil, s.rejectTransition("submit", apperrors.Wrap(ErrInvalidTransition,
			"Cannot submit timesheet. Current status is %s. Only draft timesheets can be submitted.", ts.Status))
	}
	if ts.UserID != requesterID {
		return nil, s.rejectTransition("submit", notOwner("submit"))
	}

	now := s.now()
	ts.Status = model.TimesheetStatusSubmitted
	ts.SubmittedAt = &now
	ts.SubmittedByUserID = &requesterID

	return s.save(ctx, "submit", ts)
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *timesheetService) Approve(ctx context.Context, tenantID, id, reviewerID string, note *string) (*dto.TimesheetResponse, error) {
	return s.review(ctx, tenantID, id, reviewerID, note, "approve", model.TimesheetStatusApproved)
}

func (s *timesheetService) Reject(ctx context.Context, tenantID, id, reviewerID string, note *string) (*dto.TimesheetResponse, error) {
	return s.review(ctx, tenantID, id, reviewerID, note, "reject", model.TimesheetStatusRejected)
}

func (s *timesheetService) review(ctx context.Context, tenantID, id, reviewerID string, note *string, action, target string) (*dto.TimesheetResponse, error) {
	ts, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if ts.Status != model.TimesheetStatusSubmitted {
		return nil, s.rejectTransition(action, apperrors.Wrap(ErrInvalidTransition,
			"Cannot %s timesheet. Current status is %s. Only submitted timesheets can be %s.", action, ts.Status, target))
	}
	if target == model.TimesheetStatusRejected && (note == nil || strings.TrimSpace(*note) == "") {
		return nil, s.rejectTransition(action, ErrReviewNoteRequired)
	}

	now := s.now()
	ts.Status = target
	ts.ReviewedAt = &now
	ts.ReviewedByUserID = &reviewerID
	ts.ReviewNote = note

	return s.save(ctx, action, ts)
}

// ────────────────────── Recall ──────────────────────

func (s *timesheetService) Recall(ctx context.Context, tenantID, id, requesterID string) (*dto.RecallTimesheetResponse, error) {
	ts, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if ts.Status != model.TimesheetStatusSubmitted {
		return nil, s.rejectTransition("recall", apperrors.Wrap(ErrInvalidTransition,
			"Cannot recall timesheet. Current status is %s. Only submitted timesheets can be recalled.", ts.Status))
	}
	if ts.ReviewedAt != nil {
		return nil, s.rejectTransition("recall", ErrAlreadyReviewed)
	}
	if ts.UserID != requesterID {
		return nil, s.rejectTransition("recall", notOwner("recall"))
	}

	previous := ts.Status
	ts.Status = model.TimesheetStatusDraft
	ts.SubmittedAt = nil
	ts.SubmittedByUserID = nil

	resp, err := s.save(ctx, "recall", ts)
	if err != nil {
		return nil, err
	}
	return &dto.RecallTimesheetResponse{
		Timesheet:      *resp,
		PreviousStatus: previous,
		NewStatus:      ts.Status,
	}, nil
}

// ────────────────────── Remove ──────────────────────

// Remove 仅删除周报本身，条目保留，待该周重新创建周报后再次关联
func (s *timesheetService) Remove(ctx context.Context, tenantID, id, requesterID string) error {
	ts, err := s.load(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if ts.Status != model.TimesheetStatusDraft {
		return s.rejectTransition("remove", apperrors.Wrap(ErrInvalidTransition,
			"Cannot delete timesheet. Current status is %s. Only draft timesheets can be deleted.", ts.Status))
	}
	if ts.UserID != requesterID {
		return s.rejectTransition("remove", notOwner("delete"))
	}

	if err := s.repo.Timesheet.Delete(ctx, ts.TimesheetID); err != nil {
		metrics.RecordTransition("remove", false)
		s.logger.Error("删除周报失败", zap.String("id", id), zap.Error(err))
		return err
	}

	metrics.RecordTransition("remove", true)
	s.logger.Info("周报已删除", zap.String("id", id), zap.String("user_id", requesterID))
	return nil
}

// ────────────────────── 列表 ──────────────────────

func (s *timesheetService) ListPending(ctx context.Context, tenantID string, offset, limit int) ([]dto.TimesheetResponse, int64, error) {
	list, total, err := s.repo.Timesheet.ListByStatus(ctx, tenantID, model.TimesheetStatusSubmitted, offset, limit)
	if err != nil {
		s.logger.Error("查询待审批周报失败", zap.Error(err))
		return nil, 0, err
	}
	return toTimesheetResponses(list), total, nil
}

func (s *timesheetService) ListMine(ctx context.Context, tenantID, userID string, offset, limit int) ([]dto.TimesheetResponse, int64, error) {
	list, total, err := s.repo.Timesheet.ListByUser(ctx, tenantID, userID, offset, limit)
	if err != nil {
		s.logger.Error("查询个人周报失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}
	return toTimesheetResponses(list), total, nil
}

// ── 内部辅助方法 ──

func (s *timesheetService) load(ctx context.Context, tenantID, id string) (*model.Timesheet, error) {
	ts, err := s.repo.Timesheet.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimesheetNotFound
		}
		s.logger.Error("查询周报失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return ts, nil
}

func (s *timesheetService) save(ctx context.Context, action string, ts *model.Timesheet) (*dto.TimesheetResponse, error) {
	if err := s.repo.Timesheet.Update(ctx, ts); err != nil {
		metrics.RecordTransition(action, false)
		if !errors.Is(err, apperrors.ErrOptimisticLock) {
			s.logger.Error("更新周报状态失败", zap.String("action", action), zap.String("id", ts.TimesheetID), zap.Error(err))
		}
		return nil, err
	}

	metrics.RecordTransition(action, true)
	s.logger.Info("周报状态变更",
		zap.String("action", action),
		zap.String("id", ts.TimesheetID),
		zap.String("status", ts.Status))

	resp := toTimesheetResponse(ts)
	return &resp, nil
}

func (s *timesheetService) rejectTransition(action string, err error) error {
	metrics.RecordTransition(action, false)
	return err
}

func notOwner(verb string) error {
	return apperrors.Wrap(ErrNotTimesheetOwner, "You can only %s your own timesheets", verb)
}

func newDraft(tenantID, userID string, weekStart time.Time) *model.Timesheet {
	return &model.Timesheet{
		TenantID:      tenantID,
		UserID:        userID,
		WeekStartDate: weekcalc.Normalize(weekStart),
		Status:        model.TimesheetStatusDraft,
	}
}

// getOrCreateTimesheet 返回该周周报，不存在时创建草稿；
// 并发创建撞上唯一约束时回读已存在的记录
func getOrCreateTimesheet(ctx context.Context, repo repository.TimesheetRepository, tenantID, userID string, weekStart time.Time) (*model.Timesheet, bool, error) {
	ts, err := repo.GetByKey(ctx, tenantID, userID, weekStart)
	if err == nil {
		return ts, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	ts = newDraft(tenantID, userID, weekStart)
	if err := repo.Create(ctx, ts); err != nil {
		if !errors.Is(err, repository.ErrDuplicateTimesheet) {
			return nil, false, err
		}
		existing, getErr := repo.GetByKey(ctx, tenantID, userID, weekStart)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	return ts, true, nil
}

func toTimesheetResponses(list []model.Timesheet) []dto.TimesheetResponse {
	result := make([]dto.TimesheetResponse, 0, len(list))
	for i := range list {
		result = append(result, toTimesheetResponse(&list[i]))
	}
	return result
}
