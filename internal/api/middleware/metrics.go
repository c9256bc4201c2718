package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"timekeep/backend/pkg/metrics"
)

// Metrics Prometheus 请求耗时中间件
// route 取路由模板（如 /api/v1/timesheets/:id），避免路径参数导致标签基数膨胀
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start).Seconds())
	}
}
