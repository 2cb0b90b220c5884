package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/service"
	"github.com/Angithapraveen/smart-valet/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req, "Login ID and password are required.") {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	// 登录响应为扁平结构，不走统一信封
	c.JSON(http.StatusOK, result)
}

// Me 当前用户及可访问地点
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	scope, ok := MustGetScope(c)
	if !ok {
		return
	}

	response.OK(c, h.authSvc.CurrentUser(p, scope))
}

// Logout 用户登出，当前 Token 加入黑名单直至过期
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetPrincipal(c); !ok {
		return
	}

	jti, expiresAt := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, expiresAt); err != nil {
		response.InternalError(c)
		return
	}

	response.OKWithMessage(c, "Logged out successfully.", nil)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "Invalid credentials.")
	case errors.Is(err, service.ErrDriverLogin):
		response.Forbidden(c, 11002, "Driver login is available only through mobile app.")
	default:
		response.InternalError(c)
	}
}
