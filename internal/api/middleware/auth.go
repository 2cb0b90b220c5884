package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/service"
	"github.com/Angithapraveen/smart-valet/pkg/jwt"
	"github.com/Angithapraveen/smart-valet/pkg/response"
)

// gin.Context 中的会话键
const (
	CtxKeyUserID   = "user_id"
	CtxKeyRole     = "role"
	CtxKeyTokenID  = "token_jti"
	CtxKeyTokenExp = "token_exp"
)

// Authenticator 校验 Token 并返回会话
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Session, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取 Token，验证后重新加载启用中的用户并注入请求上下文
func JWTAuth(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, http.StatusUnauthorized, 10002, "Access denied. No token provided.")
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				response.Abort(c, http.StatusUnauthorized, 10002, "Token expired.")
			case errors.Is(err, jwt.ErrTokenInvalid), errors.Is(err, service.ErrTokenRevoked):
				response.Abort(c, http.StatusUnauthorized, 10002, "Invalid token.")
			case errors.Is(err, service.ErrPrincipalInactive):
				response.Abort(c, http.StatusUnauthorized, 10002, "Invalid token. User not found or inactive.")
			default:
				logger.Error("认证失败", zap.Error(err))
				response.Abort(c, http.StatusInternalServerError, 50000, "Internal server error.")
			}
			return
		}

		p := session.Principal
		c.Request = c.Request.WithContext(access.WithPrincipal(c.Request.Context(), p))
		c.Set(CtxKeyUserID, p.UserID)
		c.Set(CtxKeyRole, p.Role.String())
		c.Set(CtxKeyTokenID, session.TokenID)
		c.Set(CtxKeyTokenExp, session.ExpiresAt)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowed ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := access.PrincipalFrom(c.Request.Context())
		if err := access.RequireRole(p, allowed...); err != nil {
			if errors.Is(err, access.ErrUnauthenticated) {
				response.Abort(c, http.StatusUnauthorized, 10002, "Authentication required.")
				return
			}
			response.Abort(c, http.StatusForbidden, 10003, err.Error())
			return
		}
		c.Next()
	}
}
