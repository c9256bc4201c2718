package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"timekeep/backend/config"
	"timekeep/backend/internal/api/handler"
	"timekeep/backend/internal/api/middleware"
	"timekeep/backend/pkg/jwt"
	"timekeep/backend/pkg/redis"
)

// 批量写接口限流：每用户每分钟
const (
	batchRateLimit  = 30
	batchRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：黑名单与限流降级放行
func Setup(cfg *config.Config, h *handler.Handlers, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── Prometheus ──
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	reviewers := middleware.RoleAuth(middleware.RoleManager, middleware.RoleAdmin)
	batchLimit := middleware.RateLimit(rdb, batchRateLimit, batchRateWindow)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 周报模块
		timesheets := v1.Group("/timesheets")
		{
			timesheets.GET("", h.Timesheet.ListMine)
			timesheets.POST("", h.Timesheet.Create)
			timesheets.GET("/current", h.Timesheet.Current)
			timesheets.GET("/pending", reviewers, h.Timesheet.ListPending)
			timesheets.GET("/:id", h.Timesheet.Get) // 非审核角色仅限本人（Handler 层鉴权）
			timesheets.DELETE("/:id", h.Timesheet.Delete)
			timesheets.POST("/:id/submit", h.Timesheet.Submit)
			timesheets.POST("/:id/recall", h.Timesheet.Recall)
			timesheets.POST("/:id/approve", reviewers, h.Timesheet.Approve)
			timesheets.POST("/:id/reject", reviewers, h.Timesheet.Reject)
		}

		// 工时条目模块
		entries := v1.Group("/time-entries")
		{
			entries.GET("", h.TimeEntry.List)
			entries.POST("", h.TimeEntry.Create)
			entries.PUT("/:id", h.TimeEntry.Update)
			entries.DELETE("/:id", h.TimeEntry.Delete)
			entries.POST("/bulk", batchLimit, h.TimeEntry.BulkSync)
			entries.POST("/copy-week", batchLimit, h.TimeEntry.CopyWeek)
		}

		// 统计模块
		reports := v1.Group("/reports")
		{
			reports.GET("/weekly-hours", h.Report.WeeklyHours)
			reports.GET("/project-stats", h.Report.ProjectStats)
			reports.GET("/week-view", h.Report.WeekView)
			reports.GET("/projects/:id/hours", reviewers, h.Report.ProjectHours)
		}

		// 导出模块
		v1.GET("/export/week", h.Export.ExportWeek)
		v1.GET("/export/week.ics", h.Export.ExportWeekCalendar)
	}

	return r
}
