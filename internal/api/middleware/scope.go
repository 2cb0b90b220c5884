package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/pkg/response"
)

// ScopeResolver 计算用户可操作的地点集合
type ScopeResolver interface {
	Resolve(ctx context.Context, p *access.Principal) (*access.Scope, error)
}

// AttachLocationAccess 按角色解析地点范围并注入请求上下文，须在 JWTAuth 之后使用
func AttachLocationAccess(resolver ScopeResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := access.PrincipalFrom(c.Request.Context())
		if !ok {
			response.Abort(c, http.StatusUnauthorized, 10002, "Authentication required.")
			return
		}

		scope, err := resolver.Resolve(c.Request.Context(), p)
		if err != nil {
			logger.Error("解析地点范围失败", zap.String("user_id", p.UserID), zap.Error(err))
			response.Abort(c, http.StatusInternalServerError, 50000, "Internal server error.")
			return
		}

		c.Request = c.Request.WithContext(access.WithScope(c.Request.Context(), scope))
		c.Next()
	}
}

// ValidateLocationAccess 请求引用的地点（路径参数 locationId 或查询参数 location_id）必须在范围内，
// 未引用地点时放行
func ValidateLocationAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		requested := c.Param("locationId")
		if requested == "" {
			requested = c.Query("location_id")
		}

		scope, _ := access.ScopeFrom(c.Request.Context())
		if err := scope.Validate(requested); err != nil {
			switch {
			case errors.Is(err, access.ErrNoLocationsAssigned):
				response.Abort(c, http.StatusForbidden, 10003, "No locations assigned to this user.")
			default:
				response.Abort(c, http.StatusForbidden, 10003, "Access denied. Location not assigned to this user.")
			}
			return
		}
		c.Next()
	}
}
