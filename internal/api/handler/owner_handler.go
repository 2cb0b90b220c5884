package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/service"
	"github.com/Angithapraveen/smart-valet/pkg/response"
)

// OwnerHandler 业主模块 HTTP 处理器
type OwnerHandler struct {
	ownerSvc service.OwnerService
}

// NewOwnerHandler 创建 OwnerHandler
func NewOwnerHandler(ownerSvc service.OwnerService) *OwnerHandler {
	return &OwnerHandler{ownerSvc: ownerSvc}
}

// CreateOwner 创建业主并授权到地点
// POST /api/admin/owners
func (h *OwnerHandler) CreateOwner(c *gin.Context) {
	var req dto.CreateOwnerRequest
	if !bindJSON(c, &req, "name, email_id, phone_number, password, and location_id are required.") {
		return
	}

	result, err := h.ownerSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleOwnerError(c, err)
		return
	}

	response.Created(c, "Owner created and assigned to location successfully.", result)
}

// ListOwners 业主列表（含授权地点数量）
// GET /api/admin/owners
func (h *OwnerHandler) ListOwners(c *gin.Context) {
	owners, err := h.ownerSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, owners)
}

// UpdateOwnerStatus 启用/停用业主
// PUT /api/admin/owners/:id/status
func (h *OwnerHandler) UpdateOwnerStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req, "status (boolean) is required.") {
		return
	}

	id := c.Param("id")
	if err := h.ownerSvc.UpdateStatus(c.Request.Context(), id, *req.Status); err != nil {
		h.handleOwnerError(c, err)
		return
	}

	message := "Owner disabled."
	if *req.Status {
		message = "Owner enabled."
	}
	response.OKWithMessage(c, message, dto.OwnerStatusResponse{UserID: id, Status: *req.Status})
}

// handleOwnerError 统一处理业主模块业务错误
func (h *OwnerHandler) handleOwnerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOwnerFieldsRequired):
		response.BadRequest(c, 10001, "name, email_id, phone_number, password, and location_id are required.")
	case errors.Is(err, service.ErrInvalidEmail):
		response.BadRequest(c, 10001, "Invalid email format.")
	case errors.Is(err, service.ErrInvalidPhone):
		response.BadRequest(c, 10001, "Invalid phone number format.")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 13001, "Email already exists.")
	case errors.Is(err, service.ErrPhoneExists):
		response.Conflict(c, 13002, "Phone number already exists.")
	case errors.Is(err, service.ErrLocationUnavailable):
		response.NotFound(c, 13003, "Location not found or inactive.")
	case errors.Is(err, service.ErrOwnerNotFound):
		response.NotFound(c, 13004, "Owner not found.")
	case errors.Is(err, service.ErrOwnerIDConflict):
		response.Conflict(c, 13005, "Owner ID already exists. Please retry.")
	case errors.Is(err, service.ErrOwnerIDExhausted):
		response.Conflict(c, 13006, "Owner ID sequence exhausted for this year.")
	case errors.Is(err, service.ErrOwnerRoleMissing):
		response.Error(c, http.StatusInternalServerError, 50000, "OWNER role not found in system.")
	default:
		response.InternalError(c)
	}
}
