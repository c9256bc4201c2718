package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/model"
	apperrors "timekeep/backend/pkg/errors"
)

// ── Create 测试 ──

func TestTimesheetService_Create_Success(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()

	result, err := svc.Create(context.Background(), tenantA, userU, &dto.CreateTimesheetRequest{WeekStartDate: "2025-01-06"})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != model.TimesheetStatusDraft {
		t.Errorf("期望Status=draft，实际=%s", result.Status)
	}
	if result.WeekStartDate != "2025-01-06" || result.WeekEndDate != "2025-01-12" {
		t.Errorf("周起止日期不正确: %s ~ %s", result.WeekStartDate, result.WeekEndDate)
	}
	if result.UserID != userU {
		t.Errorf("期望UserID=%s，实际=%s", userU, result.UserID)
	}
}

func TestTimesheetService_Create_Duplicate(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)

	_, err := svc.Create(context.Background(), tenantA, userU, &dto.CreateTimesheetRequest{WeekStartDate: "2025-01-06"})
	if !errors.Is(err, ErrTimesheetExists) {
		t.Errorf("期望 ErrTimesheetExists，实际: %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("期望 Conflict，实际: %s", apperrors.KindOf(err))
	}
}

func TestTimesheetService_Create_SameWeekOtherTenant(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantB, userU, "2025-01-06", model.TimesheetStatusDraft)

	if _, err := svc.Create(context.Background(), tenantA, userU, &dto.CreateTimesheetRequest{WeekStartDate: "2025-01-06"}); err != nil {
		t.Fatalf("不同租户同一周应可创建: %v", err)
	}
}

func TestTimesheetService_Create_BadDate(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()

	_, err := svc.Create(context.Background(), tenantA, userU, &dto.CreateTimesheetRequest{WeekStartDate: "06/01/2025"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

// ── Get 测试 ──

func TestTimesheetService_Get_TenantScoped(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)

	if _, err := svc.Get(context.Background(), tenantA, "ts-1"); err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	_, err := svc.Get(context.Background(), tenantB, "ts-1")
	if !errors.Is(err, ErrTimesheetNotFound) {
		t.Errorf("其他租户应查不到，实际: %v", err)
	}
}

// ── Submit 测试 ──

func TestTimesheetService_Submit_Success(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	svc.now = fixedClock("2025-01-10")
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)

	result, err := svc.Submit(context.Background(), tenantA, "ts-1", userU)
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if result.Status != model.TimesheetStatusSubmitted {
		t.Errorf("期望Status=submitted，实际=%s", result.Status)
	}
	if result.SubmittedAt == nil || *result.SubmittedAt != "2025-01-10T10:00:00Z" {
		t.Errorf("SubmittedAt 未正确设置: %v", result.SubmittedAt)
	}
	if result.SubmittedByUserID == nil || *result.SubmittedByUserID != userU {
		t.Errorf("SubmittedByUserID 应为 %s", userU)
	}
	if result.Version != 2 {
		t.Errorf("期望Version=2，实际=%d", result.Version)
	}
}

func TestTimesheetService_Submit_NotDraft(t *testing.T) {
	for _, status := range []string{
		model.TimesheetStatusSubmitted,
		model.TimesheetStatusApproved,
		model.TimesheetStatusRejected,
	} {
		env := newTestEnv()
		svc := env.timesheetService()
		env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", status)

		_, err := svc.Submit(context.Background(), tenantA, "ts-1", userU)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("status=%s: 期望 ErrInvalidTransition，实际: %v", status, err)
			continue
		}
		want := "Cannot submit timesheet. Current status is " + status + ". Only draft timesheets can be submitted."
		if err.Error() != want {
			t.Errorf("status=%s: 错误消息不符: %s", status, err.Error())
		}
		if apperrors.KindOf(err) != apperrors.KindBadRequest {
			t.Errorf("status=%s: 期望 BadRequest", status)
		}
	}
}

func TestTimesheetService_Submit_NotOwner(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)

	_, err := svc.Submit(context.Background(), tenantA, "ts-1", userV)
	if !errors.Is(err, ErrNotTimesheetOwner) {
		t.Fatalf("期望 ErrNotTimesheetOwner，实际: %v", err)
	}
	if err.Error() != "You can only submit your own timesheets" {
		t.Errorf("错误消息不符: %s", err.Error())
	}
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("期望 Forbidden")
	}
}

func TestTimesheetService_Submit_NotFound(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()

	_, err := svc.Submit(context.Background(), tenantA, "missing", userU)
	if !errors.Is(err, ErrTimesheetNotFound) {
		t.Errorf("期望 ErrTimesheetNotFound，实际: %v", err)
	}
}

func TestTimesheetService_Submit_StaleVersion(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)
	env.timesheets.staleUpdate = true

	_, err := svc.Submit(context.Background(), tenantA, "ts-1", userU)
	if !errors.Is(err, apperrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
	if env.timesheets.timesheets["ts-1"].Status != model.TimesheetStatusDraft {
		t.Error("乐观锁冲突时状态不应改变")
	}
}

// ── Approve / Reject 测试 ──

func TestTimesheetService_Approve_Success(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusSubmitted)

	result, err := svc.Approve(context.Background(), tenantA, "ts-1", managerM, strPtr("ok"))
	if err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}
	if result.Status != model.TimesheetStatusApproved {
		t.Errorf("期望Status=approved，实际=%s", result.Status)
	}
	if result.ReviewedAt == nil {
		t.Error("ReviewedAt 应已设置")
	}
	if result.ReviewedByUserID == nil || *result.ReviewedByUserID != managerM {
		t.Errorf("ReviewedByUserID 应为 %s", managerM)
	}
	if result.ReviewNote == nil || *result.ReviewNote != "ok" {
		t.Error("ReviewNote 应为 ok")
	}
}

func TestTimesheetService_Approve_WithoutNote(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusSubmitted)

	result, err := svc.Approve(context.Background(), tenantA, "ts-1", managerM, nil)
	if err != nil {
		t.Fatalf("审批备注可选: %v", err)
	}
	if result.ReviewNote != nil {
		t.Error("未提供备注时 ReviewNote 应为空")
	}
}

func TestTimesheetService_Approve_NotSubmitted(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)

	_, err := svc.Approve(context.Background(), tenantA, "ts-1", managerM, nil)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("期望 ErrInvalidTransition，实际: %v", err)
	}
	want := "Cannot approve timesheet. Current status is draft. Only submitted timesheets can be approved."
	if err.Error() != want {
		t.Errorf("错误消息不符: %s", err.Error())
	}
}

func TestTimesheetService_Reject_RequiresNote(t *testing.T) {
	for _, note := range []*string{nil, strPtr(""), strPtr("   ")} {
		env := newTestEnv()
		svc := env.timesheetService()
		env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusSubmitted)

		_, err := svc.Reject(context.Background(), tenantA, "ts-1", managerM, note)
		if !errors.Is(err, ErrReviewNoteRequired) {
			t.Errorf("期望 ErrReviewNoteRequired，实际: %v", err)
		}
		if env.timesheets.timesheets["ts-1"].Status != model.TimesheetStatusSubmitted {
			t.Error("驳回失败时状态不应改变")
		}
	}
}

func TestTimesheetService_Reject_Success(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusSubmitted)

	result, err := svc.Reject(context.Background(), tenantA, "ts-1", managerM, strPtr("missing Friday"))
	if err != nil {
		t.Fatalf("Reject 应成功: %v", err)
	}
	if result.Status != model.TimesheetStatusRejected {
		t.Errorf("期望Status=rejected，实际=%s", result.Status)
	}
}

func TestTimesheetService_Reject_NotSubmitted(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusApproved)

	_, err := svc.Reject(context.Background(), tenantA, "ts-1", managerM, strPtr("late"))
	want := "Cannot reject timesheet. Current status is approved. Only submitted timesheets can be rejected."
	if err == nil || err.Error() != want {
		t.Errorf("错误消息不符: %v", err)
	}
}

// rejected 的周报条目可编辑，但不能再次提交
func TestTimesheetService_Rejected_CannotResubmit(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusRejected)

	_, err := svc.Submit(context.Background(), tenantA, "ts-1", userU)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("rejected 周报提交应失败，实际: %v", err)
	}
}

// ── Recall 测试 ──

func TestTimesheetService_Recall_Success(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)

	if _, err := svc.Submit(context.Background(), tenantA, "ts-1", userU); err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}

	result, err := svc.Recall(context.Background(), tenantA, "ts-1", userU)
	if err != nil {
		t.Fatalf("Recall 应成功: %v", err)
	}
	if result.PreviousStatus != model.TimesheetStatusSubmitted || result.NewStatus != model.TimesheetStatusDraft {
		t.Errorf("状态变化不正确: %s → %s", result.PreviousStatus, result.NewStatus)
	}
	if result.Timesheet.SubmittedAt != nil || result.Timesheet.SubmittedByUserID != nil {
		t.Error("撤回后应清空提交信息")
	}
}

// 场景：已审批后撤回
func TestTimesheetService_Recall_AfterApproval(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusApproved)

	_, err := svc.Recall(context.Background(), tenantA, "ts-1", userU)
	want := "Cannot recall timesheet. Current status is approved. Only submitted timesheets can be recalled."
	if err == nil || err.Error() != want {
		t.Fatalf("错误消息不符: %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindBadRequest {
		t.Error("期望 BadRequest")
	}
}

func TestTimesheetService_Recall_AlreadyReviewed(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	ts := env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusSubmitted)
	reviewed := time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)
	env.timesheets.timesheets[ts.TimesheetID].ReviewedAt = &reviewed

	_, err := svc.Recall(context.Background(), tenantA, "ts-1", userU)
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("期望 ErrAlreadyReviewed，实际: %v", err)
	}
}

func TestTimesheetService_Recall_NotOwner(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusSubmitted)

	_, err := svc.Recall(context.Background(), tenantA, "ts-1", userV)
	if err == nil || err.Error() != "You can only recall your own timesheets" {
		t.Errorf("错误消息不符: %v", err)
	}
}

// ── Remove 测试 ──

func TestTimesheetService_Remove_KeepsEntries(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)
	env.seedEntry(tenantA, userU, projectP1, "2025-01-06", 1, 8, nil)

	if err := svc.Remove(context.Background(), tenantA, "ts-1", userU); err != nil {
		t.Fatalf("Remove 应成功: %v", err)
	}
	if _, ok := env.timesheets.timesheets["ts-1"]; ok {
		t.Error("周报应已删除")
	}
	if len(env.entries.entries) != 1 {
		t.Error("删除周报不应删除工时条目")
	}
}

func TestTimesheetService_Remove_NotDraft(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusSubmitted)

	err := svc.Remove(context.Background(), tenantA, "ts-1", userU)
	want := "Cannot delete timesheet. Current status is submitted. Only draft timesheets can be deleted."
	if err == nil || err.Error() != want {
		t.Errorf("错误消息不符: %v", err)
	}
}

func TestTimesheetService_Remove_NotOwner(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusDraft)

	err := svc.Remove(context.Background(), tenantA, "ts-1", userV)
	if err == nil || err.Error() != "You can only delete your own timesheets" {
		t.Errorf("错误消息不符: %v", err)
	}
}

// ── GetOrCreateCurrent 测试 ──

func TestTimesheetService_GetOrCreateCurrent_LazyCreate(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	svc.now = fixedClock("2025-01-08") // 周三

	first, err := svc.GetOrCreateCurrent(context.Background(), tenantA, userU, nil)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent 应成功: %v", err)
	}
	if !first.Created {
		t.Error("首次访问应创建周报")
	}
	if first.Timesheet.WeekStartDate != "2025-01-06" {
		t.Errorf("默认周一起始，期望 2025-01-06，实际=%s", first.Timesheet.WeekStartDate)
	}
	if first.Timesheet.Status != model.TimesheetStatusDraft {
		t.Errorf("期望Status=draft，实际=%s", first.Timesheet.Status)
	}

	second, err := svc.GetOrCreateCurrent(context.Background(), tenantA, userU, nil)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent 应成功: %v", err)
	}
	if second.Created || second.Timesheet.ID != first.Timesheet.ID {
		t.Error("再次访问应返回已有周报")
	}
}

func TestTimesheetService_GetOrCreateCurrent_PolicyWeekStart(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	svc.now = fixedClock("2025-01-08")
	env.policies.policies[tenantA] = &model.TimesheetPolicy{TenantID: tenantA, WeekStartDay: 0}

	result, err := svc.GetOrCreateCurrent(context.Background(), tenantA, userU, nil)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent 应成功: %v", err)
	}
	if result.Timesheet.WeekStartDate != "2025-01-05" {
		t.Errorf("周日起始，期望 2025-01-05，实际=%s", result.Timesheet.WeekStartDate)
	}

	explicit, err := svc.GetOrCreateCurrent(context.Background(), tenantA, userV, intPtr(3))
	if err != nil {
		t.Fatalf("GetOrCreateCurrent 应成功: %v", err)
	}
	if explicit.Timesheet.WeekStartDate != "2025-01-08" {
		t.Errorf("显式周三起始，期望 2025-01-08，实际=%s", explicit.Timesheet.WeekStartDate)
	}
}

// ── 列表测试 ──

func TestTimesheetService_ListPending(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusSubmitted)
	env.seedTimesheet("ts-2", tenantA, userV, "2025-01-06", model.TimesheetStatusDraft)
	env.seedTimesheet("ts-3", tenantB, userU, "2025-01-06", model.TimesheetStatusSubmitted)

	list, total, err := svc.ListPending(context.Background(), tenantA, 0, 20)
	if err != nil {
		t.Fatalf("ListPending 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != "ts-1" {
		t.Errorf("期望仅返回 ts-1，实际 total=%d list=%v", total, list)
	}
}

func TestTimesheetService_ListMine(t *testing.T) {
	env := newTestEnv()
	svc := env.timesheetService()
	env.seedTimesheet("ts-1", tenantA, userU, "2025-01-06", model.TimesheetStatusApproved)
	env.seedTimesheet("ts-2", tenantA, userU, "2025-01-13", model.TimesheetStatusDraft)
	env.seedTimesheet("ts-3", tenantA, userV, "2025-01-13", model.TimesheetStatusDraft)

	list, total, err := svc.ListMine(context.Background(), tenantA, userU, 0, 20)
	if err != nil {
		t.Fatalf("ListMine 应成功: %v", err)
	}
	if total != 2 || list[0].ID != "ts-2" {
		t.Errorf("期望按周倒序返回 2 条，实际 total=%d", total)
	}
}
