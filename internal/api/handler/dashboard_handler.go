package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Angithapraveen/smart-valet/internal/service"
	"github.com/Angithapraveen/smart-valet/pkg/response"
)

// DashboardHandler 仪表盘 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Admin GET /api/dashboard/admin
func (h *DashboardHandler) Admin(c *gin.Context) {
	scope, ok := MustGetScope(c)
	if !ok {
		return
	}
	data, err := h.dashboardSvc.Admin(c.Request.Context(), scope)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, data)
}

// Owner GET /api/dashboard/owner
func (h *DashboardHandler) Owner(c *gin.Context) {
	scope, ok := MustGetScope(c)
	if !ok {
		return
	}
	data, err := h.dashboardSvc.Owner(c.Request.Context(), scope)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, data)
}

// Manager GET /api/dashboard/manager
func (h *DashboardHandler) Manager(c *gin.Context) {
	scope, ok := MustGetScope(c)
	if !ok {
		return
	}
	data, err := h.dashboardSvc.Manager(c.Request.Context(), scope)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, data)
}
