package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/service"
	"timekeep/backend/pkg/response"
)

// TimeEntryHandler 工时条目模块 HTTP 处理器
type TimeEntryHandler struct {
	entrySvc service.TimeEntryService
}

// NewTimeEntryHandler 创建 TimeEntryHandler
func NewTimeEntryHandler(entrySvc service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entrySvc: entrySvc}
}

// List 当前用户某周的工时条目
// GET /api/v1/time-entries?week_start_date=2025-01-06
func (h *TimeEntryHandler) List(c *gin.Context) {
	weekStart := c.Query("week_start_date")
	if weekStart == "" {
		response.BadRequest(c, 10001, "week_start_date 不能为空")
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	entries, err := h.entrySvc.ListWeek(c.Request.Context(), id.TenantID, id.UserID, weekStart)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// Create 新增工时条目
// POST /api/v1/time-entries
func (h *TimeEntryHandler) Create(c *gin.Context) {
	var req dto.CreateTimeEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	entry, err := h.entrySvc.Create(c.Request.Context(), id.TenantID, id.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, entry)
}

// Update 修改工时或备注
// PUT /api/v1/time-entries/:id
func (h *TimeEntryHandler) Update(c *gin.Context) {
	var req dto.UpdateTimeEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	entry, err := h.entrySvc.Update(c.Request.Context(), id.TenantID, id.UserID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, entry)
}

// Delete 删除工时条目
// DELETE /api/v1/time-entries/:id
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.entrySvc.Delete(c.Request.Context(), id.TenantID, id.UserID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// BulkSync 批量同步一周工时，部分成功时仍返回 200
// POST /api/v1/time-entries/bulk
func (h *TimeEntryHandler) BulkSync(c *gin.Context) {
	var req dto.BulkSyncRequest
	if !bindJSON(c, &req) {
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.entrySvc.BulkSync(c.Request.Context(), id.TenantID, id.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// CopyWeek 复制上一周（或任意周）的工时到目标周
// POST /api/v1/time-entries/copy-week
func (h *TimeEntryHandler) CopyWeek(c *gin.Context) {
	var req dto.CopyWeekRequest
	if !bindJSON(c, &req) {
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.entrySvc.CopyWeek(c.Request.Context(), id.TenantID, id.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// bindJSON 绑定并校验请求体，失败时写入 400 并附带校验详情
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
		return false
	}
	return true
}
