package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/api/middleware"
	"github.com/Angithapraveen/smart-valet/pkg/response"
)

// MustGetPrincipal 从请求上下文中提取已认证用户。
// JWT 中间件未注入时写入 401 响应并返回 false，调用方应直接 return。
func MustGetPrincipal(c *gin.Context) (*access.Principal, bool) {
	p, ok := access.PrincipalFrom(c.Request.Context())
	if !ok {
		response.Unauthorized(c, 10002, "Authentication required.")
		return nil, false
	}
	return p, true
}

// MustGetScope 从请求上下文中提取地点范围。
// 路由未挂载 AttachLocationAccess 属于装配错误，返回 500。
func MustGetScope(c *gin.Context) (*access.Scope, bool) {
	s, ok := access.ScopeFrom(c.Request.Context())
	if !ok {
		response.InternalError(c)
		return nil, false
	}
	return s, true
}

// tokenInfo 当前 Token 的 jti 与过期时间，未注入时为零值
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(middleware.CtxKeyTokenID)
	exp, _ := c.Get(middleware.CtxKeyTokenExp)
	expiresAt, _ := exp.(time.Time)
	return jti, expiresAt
}
