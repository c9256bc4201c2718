package handler

import (
	"github.com/gin-gonic/gin"

	"timekeep/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetTenantID 从 Gin 上下文中安全提取 tenant_id。
func MustGetTenantID(c *gin.Context) (string, bool) {
	return mustGetString(c, "tenant_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// identity 当前请求的租户与用户
type identity struct {
	TenantID string
	UserID   string
	Role     string
}

// mustGetIdentity 一次性提取 tenant_id / user_id / role
func mustGetIdentity(c *gin.Context) (identity, bool) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return identity{}, false
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return identity{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return identity{}, false
	}
	return identity{TenantID: tenantID, UserID: userID, Role: role}, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
