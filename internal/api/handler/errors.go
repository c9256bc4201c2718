package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timekeep/backend/internal/repository"
	"timekeep/backend/internal/service"
	apperrors "timekeep/backend/pkg/errors"
	"timekeep/backend/pkg/response"
)

// ── 业务错误码 ──
// 10xxx 通用，21xxx 周报，22xxx 工时条目，23xxx 导出

type errorCode struct {
	err  error
	code int
}

var errorCodes = []errorCode{
	{service.ErrTimesheetNotFound, 21001},
	{service.ErrTimesheetExists, 21002},
	{repository.ErrDuplicateTimesheet, 21002},
	{service.ErrInvalidTransition, 21003},
	{service.ErrReviewNoteRequired, 21004},
	{service.ErrAlreadyReviewed, 21005},
	{service.ErrNotTimesheetOwner, 21006},
	{apperrors.ErrOptimisticLock, 21007},

	{service.ErrEntryNotFound, 22001},
	{service.ErrNotEntryOwner, 22002},
	{service.ErrEntriesLocked, 22003},
	{service.ErrNotProjectMember, 22004},
	{service.ErrDailyLimitExceeded, 22005},
	{service.ErrInvalidEntry, 22006},
	{service.ErrBulkTooLarge, 22007},
	{service.ErrSameWeek, 22008},
	{service.ErrEntryExists, 22009},
	{repository.ErrDuplicateTimeEntry, 22009},
}

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindNotFound:   http.StatusNotFound,
	apperrors.KindConflict:   http.StatusConflict,
	apperrors.KindBadRequest: http.StatusBadRequest,
	apperrors.KindForbidden:  http.StatusForbidden,
}

var kindCode = map[apperrors.Kind]int{
	apperrors.KindNotFound:   10007,
	apperrors.KindConflict:   10008,
	apperrors.KindBadRequest: 10001,
	apperrors.KindForbidden:  10003,
}

// handleServiceError 将业务错误映射为 HTTP 状态码与统一响应
// 非业务错误记入 c.Errors 并返回 500
func handleServiceError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.Error(c, status, codeOf(err, kind), apperrors.MessageOf(err))
}

func codeOf(err error, kind apperrors.Kind) int {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return kindCode[kind]
}
