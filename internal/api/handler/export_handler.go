package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"timekeep/backend/internal/service"
	"timekeep/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeek 导出当前用户的工时周报
// GET /api/v1/export/week?week_start_date=2025-01-06
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	weekStart := c.Query("week_start_date")
	if weekStart == "" {
		response.BadRequest(c, 10001, "week_start_date 不能为空")
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportWeek(c.Request.Context(), id.TenantID, id.UserID, weekStart)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportWeekCalendar 导出当前用户某周工时为 iCalendar
// GET /api/v1/export/week.ics?week_start_date=2025-01-06
func (h *ExportHandler) ExportWeekCalendar(c *gin.Context) {
	weekStart := c.Query("week_start_date")
	if weekStart == "" {
		response.BadRequest(c, 10001, "week_start_date 不能为空")
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportWeekCalendar(c.Request.Context(), id.TenantID, id.UserID, weekStart)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, icsContentType, buf.Bytes())
}
