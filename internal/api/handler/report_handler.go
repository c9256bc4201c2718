package handler

import (
	"github.com/gin-gonic/gin"

	"timekeep/backend/internal/dto"
	"timekeep/backend/internal/service"
	"timekeep/backend/pkg/response"
)

// ReportHandler 工时统计 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// WeeklyHours 当前用户某周按天汇总
// GET /api/v1/reports/weekly-hours?week_start_date=2025-01-06
func (h *ReportHandler) WeeklyHours(c *gin.Context) {
	weekStart := c.Query("week_start_date")
	if weekStart == "" {
		response.BadRequest(c, 10001, "week_start_date 不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.WeeklyHours(c.Request.Context(), userID, weekStart)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// ProjectHours 项目工时合计（仅管理者）
// GET /api/v1/reports/projects/:id/hours
func (h *ReportHandler) ProjectHours(c *gin.Context) {
	result, err := h.reportSvc.ProjectHours(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// ProjectStats 当前用户按项目分布
// GET /api/v1/reports/project-stats?start_date=&end_date=
func (h *ReportHandler) ProjectStats(c *gin.Context) {
	var q dto.UserProjectStatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.UserProjectStats(c.Request.Context(), userID, &q)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// WeekView 周视图：条目、每日合计、项目分布与周报状态
// GET /api/v1/reports/week-view?week_start_date=2025-01-06
func (h *ReportHandler) WeekView(c *gin.Context) {
	weekStart := c.Query("week_start_date")
	if weekStart == "" {
		response.BadRequest(c, 10001, "week_start_date 不能为空")
		return
	}

	id, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.WeekView(c.Request.Context(), id.TenantID, id.UserID, weekStart)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
