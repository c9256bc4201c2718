package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/service"
	"timekeep/backend/pkg/response"
)

// 审核角色
const (
	roleManager = "manager"
	roleAdmin   = "admin"
)

// TimesheetHandler 周报模块 HTTP 处理器
type TimesheetHandler struct {
	timesheetSvc service.TimesheetService
}

// NewTimesheetHandler 创建 TimesheetHandler
func NewTimesheetHandler(timesheetSvc service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheetSvc: timesheetSvc}
}

// ListMine 当前用户的周报列表
// GET /api/v1/timesheets?page=1&page_size=20
func (h *TimesheetHandler) ListMine(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "分页参数无效")
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	list, total, err := h.timesheetSvc.ListMine(c.Request.Context(), id.TenantID, id.UserID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListPending 待审核周报
// GET /api/v1/timesheets/pending
func (h *TimesheetHandler) ListPending(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "分页参数无效")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	list, total, err := h.timesheetSvc.ListPending(c.Request.Context(), tenantID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Create 创建指定周的草稿周报
// POST /api/v1/timesheets
func (h *TimesheetHandler) Create(c *gin.Context) {
	var req dto.CreateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Create(c.Request.Context(), id.TenantID, id.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, ts)
}

// Current 获取或创建本周周报
// GET /api/v1/timesheets/current?week_start_day=1
func (h *TimesheetHandler) Current(c *gin.Context) {
	var weekStartDay *int
	if raw := c.Query("week_start_day"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 || d > 6 {
			response.BadRequest(c, 10001, "week_start_day 必须在 0-6 之间")
			return
		}
		weekStartDay = &d
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.timesheetSvc.GetOrCreateCurrent(c.Request.Context(), id.TenantID, id.UserID, weekStartDay)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if result.Created {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// Get 周报详情
// GET /api/v1/timesheets/:id
// 普通成员只能查看自己的周报
func (h *TimesheetHandler) Get(c *gin.Context) {
	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Get(c.Request.Context(), id.TenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if ts.UserID != id.UserID && !isReviewer(id.Role) {
		handleServiceError(c, service.ErrNotTimesheetOwner)
		return
	}

	response.OK(c, ts)
}

// Submit 提交周报
// POST /api/v1/timesheets/:id/submit
func (h *TimesheetHandler) Submit(c *gin.Context) {
	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Submit(c.Request.Context(), id.TenantID, c.Param("id"), id.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, ts)
}

// Recall 撤回已提交的周报
// POST /api/v1/timesheets/:id/recall
func (h *TimesheetHandler) Recall(c *gin.Context) {
	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.timesheetSvc.Recall(c.Request.Context(), id.TenantID, c.Param("id"), id.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Approve 审核通过
// POST /api/v1/timesheets/:id/approve
func (h *TimesheetHandler) Approve(c *gin.Context) {
	h.review(c, h.timesheetSvc.Approve)
}

// Reject 驳回（必须填写审核意见）
// POST /api/v1/timesheets/:id/reject
func (h *TimesheetHandler) Reject(c *gin.Context) {
	h.review(c, h.timesheetSvc.Reject)
}

type reviewFunc func(ctx context.Context, tenantID, id, reviewerID string, note *string) (*dto.TimesheetResponse, error)

func (h *TimesheetHandler) review(c *gin.Context, fn reviewFunc) {
	// 请求体可选
	var req dto.ReviewTimesheetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	ts, err := fn(c.Request.Context(), id.TenantID, c.Param("id"), id.UserID, req.Note)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, ts)
}

// Delete 删除草稿周报
// DELETE /api/v1/timesheets/:id
func (h *TimesheetHandler) Delete(c *gin.Context) {
	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.timesheetSvc.Remove(c.Request.Context(), id.TenantID, c.Param("id"), id.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

func isReviewer(role string) bool {
	return role == roleManager || role == roleAdmin
}
