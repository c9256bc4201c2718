package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"timekeep/backend/pkg/response"
)

// requestIDMaxLen 限制外部传入的 Request-ID 最大长度，防止日志注入
const requestIDMaxLen = 64

// RequestID 请求追踪 ID 中间件
// 读取 X-Request-ID 请求头，缺失或超长时生成 UUID；
// 写入 gin.Context 供日志与统一响应体使用，并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(response.RequestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(response.RequestIDKey, rid)
		c.Header(response.RequestIDHeader, rid)

		c.Next()
	}
}
