package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/service"
	"github.com/Angithapraveen/smart-valet/pkg/response"
)

// LocationHandler 地点模块 HTTP 处理器
type LocationHandler struct {
	locationSvc service.LocationService
}

// NewLocationHandler 创建 LocationHandler
func NewLocationHandler(locationSvc service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// CreateLocation 创建地点
// POST /api/admin/locations
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bindJSON(c, &req, "location_name, location_short_code, location_type and valid_from are required.") {
		return
	}

	location, err := h.locationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.Created(c, "Location created successfully.", location)
}

// ListLocations 获取全部地点（含停用）
// GET /api/admin/locations
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.locationSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, locations)
}

// UpdateLocationStatus 启用/停用地点
// PUT /api/admin/locations/:id/status
func (h *LocationHandler) UpdateLocationStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req, "status (boolean) is required.") {
		return
	}

	location, err := h.locationSvc.UpdateStatus(c.Request.Context(), c.Param("id"), *req.Status)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	message := "Location disabled."
	if location.Status {
		message = "Location enabled."
	}
	response.OKWithMessage(c, message, location)
}

// GetLocation 获取用户地点范围内的地点详情
// GET /api/locations/:locationId
func (h *LocationHandler) GetLocation(c *gin.Context) {
	scope, ok := MustGetScope(c)
	if !ok {
		return
	}

	location, err := h.locationSvc.GetScoped(c.Request.Context(), scope, c.Param("locationId"))
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// handleLocationError 统一处理地点模块业务错误
func (h *LocationHandler) handleLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLocationFieldsRequired):
		response.BadRequest(c, 10001, "location_name, location_short_code, location_type and valid_from are required.")
	case errors.Is(err, service.ErrShortCodeLength):
		response.BadRequest(c, 10001, "Location short code must be exactly 3 characters.")
	case errors.Is(err, service.ErrShortCodeLetters):
		response.BadRequest(c, 10001, "Location short code must contain only letters A-Z.")
	case errors.Is(err, service.ErrLocationTypeInvalid):
		response.BadRequest(c, 10001, "location_type must start with a letter A-Z.")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, "Dates must use the YYYY-MM-DD format.")
	case errors.Is(err, service.ErrValidityRange):
		response.BadRequest(c, 10001, "valid_to must not be earlier than valid_from.")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 12001, "Location not found.")
	case errors.Is(err, service.ErrLocationIDConflict):
		response.Conflict(c, 12002, "Location ID already exists. Please retry.")
	case errors.Is(err, service.ErrLocationIDExhausted):
		response.Conflict(c, 12003, "Location ID sequence exhausted for this year.")
	case errors.Is(err, access.ErrNoLocationsAssigned):
		response.Forbidden(c, 10003, "No locations assigned to this user.")
	case errors.Is(err, access.ErrLocationNotAssigned):
		response.Forbidden(c, 10003, "Access denied. Location not assigned to this user.")
	default:
		response.InternalError(c)
	}
}
