package service

import (
	"context"

	"go.uber.org/zap"

	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/model"
	"timekeep/backend/pkg/metrics"
)

// ═══════════════════════════════════════════════════════════
// CopyWeek — 将一周的工时复制到另一周
// ═══════════════════════════════════════════════════════════
//
// 按 (project, task, day_of_week) 匹配目标周条目：
//   - 已存在且不覆盖：跳过，原因 "Entry already exists"，目标条目不变
//   - 已存在且覆盖：工时总是复制，备注仅在 copy_notes 时复制，计入 overwritten
//   - 不存在：插入新条目，计入 copied
//
// copied 不包含 overwritten。单条失败写入 skipped，不中止整体。

func (s *timeEntryService) CopyWeek(ctx context.Context, tenantID, userID string, req *dto.CopyWeekRequest) (*dto.CopyWeekResponse, error) {
	from, err := parseWeek(req.FromWeekStart)
	if err != nil {
		return nil, err
	}
	to, err := parseWeek(req.ToWeekStart)
	if err != nil {
		return nil, err
	}
	if from.Equal(to) {
		return nil, ErrSameWeek
	}

	result := &dto.CopyWeekResponse{
		Entries: []dto.TimeEntryResponse{},
		Skipped: []dto.CopySkip{},
	}

	source, err := s.repo.TimeEntry.ListByUserWeek(ctx, tenantID, userID, from)
	if err != nil {
		s.logger.Error("查询源周工时失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(source) == 0 {
		return result, nil
	}

	if err := s.guard.CheckEditable(ctx, tenantID, userID, to); err != nil {
		return nil, err
	}

	for i := range source {
		src := &source[i]

		target := &model.TimeEntry{
			TenantID:      tenantID,
			UserID:        userID,
			ProjectID:     src.ProjectID,
			TaskID:        src.TaskID,
			WeekStartDate: to,
			DayOfWeek:     src.DayOfWeek,
			Hours:         src.Hours,
			Project:       src.Project,
			Task:          src.Task,
		}
		if req.CopyNotes {
			target.Note = src.Note
		}

		var inserted bool
		if req.OverwriteExisting {
			inserted, err = s.repo.TimeEntry.Upsert(ctx, target, !req.CopyNotes)
		} else {
			inserted, err = s.repo.TimeEntry.InsertIfAbsent(ctx, target)
		}
		if err != nil {
			result.Skipped = append(result.Skipped, copySkip(src, s.itemErrorMessage(err, "复制工时条目失败", src.ProjectID)))
			continue
		}

		switch {
		case inserted:
			result.CopiedCount++
		case req.OverwriteExisting:
			result.OverwrittenCount++
		default:
			result.Skipped = append(result.Skipped, copySkip(src, ErrEntryExists.Message))
			continue
		}
		result.Entries = append(result.Entries, toTimeEntryResponse(target))
	}

	result.SkippedCount = len(result.Skipped)

	metrics.RecordBatchItems(metrics.OpCopyWeek, metrics.OutcomeCreated, result.CopiedCount)
	metrics.RecordBatchItems(metrics.OpCopyWeek, metrics.OutcomeOverwritten, result.OverwrittenCount)
	metrics.RecordBatchItems(metrics.OpCopyWeek, metrics.OutcomeSkipped, result.SkippedCount)

	s.logger.Info("复制周工时完成",
		zap.String("user_id", userID),
		zap.String("from", req.FromWeekStart),
		zap.String("to", req.ToWeekStart),
		zap.Int("copied", result.CopiedCount),
		zap.Int("overwritten", result.OverwrittenCount),
		zap.Int("skipped", result.SkippedCount))

	return result, nil
}

func copySkip(src *model.TimeEntry, reason string) dto.CopySkip {
	return dto.CopySkip{
		ProjectID: src.ProjectID,
		TaskID:    src.TaskID,
		DayOfWeek: src.DayOfWeek,
		Reason:    reason,
	}
}
