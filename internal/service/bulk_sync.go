package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/model"
	apperrors "timekeep/backend/pkg/errors"
	"timekeep/backend/pkg/metrics"
)

// ═══════════════════════════════════════════════════════════
// BulkSync — 批量同步一周工时
// ═══════════════════════════════════════════════════════════
//
// 每条独立处理：成员校验 → 原子 upsert（按唯一键插入或更新）。
// 单条失败写入 errors 后继续；整体非原子，部分成功是正常结果。
// 不经过 EditabilityGuard。

func (s *timeEntryService) BulkSync(ctx context.Context, tenantID, userID string, req *dto.BulkSyncRequest) (*dto.BulkSyncResponse, error) {
	if len(req.Entries) > s.bulkMaxItems {
		return nil, apperrors.Wrap(ErrBulkTooLarge, "Too many entries in one request: %d > %d", len(req.Entries), s.bulkMaxItems)
	}
	week, err := parseWeek(req.WeekStartDate)
	if err != nil {
		return nil, err
	}

	result := &dto.BulkSyncResponse{
		Created: []dto.TimeEntryResponse{},
		Updated: []dto.TimeEntryResponse{},
		Errors:  []dto.BulkSyncError{},
	}

	for i := range req.Entries {
		item := &req.Entries[i]

		entry, inserted, err := s.syncItem(ctx, tenantID, userID, item, week)
		if err != nil {
			result.Errors = append(result.Errors, dto.BulkSyncError{
				DayOfWeek: derefInt(item.DayOfWeek),
				ProjectID: item.ProjectID,
				Error:     s.itemErrorMessage(err, "保存批量工时条目失败", item.ProjectID),
			})
			continue
		}

		if inserted {
			result.Created = append(result.Created, toTimeEntryResponse(entry))
		} else {
			result.Updated = append(result.Updated, toTimeEntryResponse(entry))
		}
	}

	result.Summary = dto.BulkSyncSummary{
		CreatedCount:   len(result.Created),
		UpdatedCount:   len(result.Updated),
		ErrorCount:     len(result.Errors),
		TotalRequested: len(req.Entries),
	}

	metrics.RecordBatchItems(metrics.OpBulkSync, metrics.OutcomeCreated, result.Summary.CreatedCount)
	metrics.RecordBatchItems(metrics.OpBulkSync, metrics.OutcomeUpdated, result.Summary.UpdatedCount)
	metrics.RecordBatchItems(metrics.OpBulkSync, metrics.OutcomeError, result.Summary.ErrorCount)

	s.logger.Info("批量同步工时完成",
		zap.String("user_id", userID),
		zap.String("week_start_date", req.WeekStartDate),
		zap.Int("created", result.Summary.CreatedCount),
		zap.Int("updated", result.Summary.UpdatedCount),
		zap.Int("errors", result.Summary.ErrorCount))

	return result, nil
}

func (s *timeEntryService) syncItem(ctx context.Context, tenantID, userID string, item *dto.BulkEntryItem, week time.Time) (*model.TimeEntry, bool, error) {
	if err := validateStruct(item); err != nil {
		return nil, false, err
	}

	member, err := s.repo.Membership.IsMember(ctx, tenantID, userID, item.ProjectID)
	if err != nil {
		return nil, false, err
	}
	if !member {
		return nil, false, ErrNotProjectMember
	}

	entry := &model.TimeEntry{
		TenantID:      tenantID,
		UserID:        userID,
		ProjectID:     item.ProjectID,
		TaskID:        item.TaskID,
		WeekStartDate: week,
		DayOfWeek:     *item.DayOfWeek,
		Hours:         *item.Hours,
		Note:          item.Note,
	}
	inserted, err := s.repo.TimeEntry.Upsert(ctx, entry, false)
	if err != nil {
		return nil, false, err
	}
	return entry, inserted, nil
}

// itemErrorMessage 业务错误直接返回其消息；未预期错误记录日志并返回通用消息
func (s *timeEntryService) itemErrorMessage(err error, logMsg, projectID string) string {
	if msg := apperrors.MessageOf(err); msg != "" {
		return msg
	}
	s.logger.Error(logMsg, zap.String("project_id", projectID), zap.Error(err))
	return "Failed to save time entry"
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
