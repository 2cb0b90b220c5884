package dto

import "github.com/Angithapraveen/smart-valet/internal/model"

// ── 业主模块 DTO ──

// CreateOwnerRequest 创建业主并授权地点
type CreateOwnerRequest struct {
	Name        string `json:"name"         binding:"required"`
	EmailID     string `json:"email_id"     binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password"     binding:"required"`
	LocationID  string `json:"location_id"  binding:"required"`
}

// OwnerInfo 业主信息（脱敏）
type OwnerInfo struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	EmailID     string `json:"email_id"`
	PhoneNumber string `json:"phone_number"`
	RoleID      int    `json:"role_id"`
}

// CreateOwnerResponse 创建业主响应
type CreateOwnerResponse struct {
	Owner          OwnerInfo            `json:"owner"`
	LocationAccess model.LocationAccess `json:"location_access"`
}

// OwnerStatusResponse 业主启用/停用响应
type OwnerStatusResponse struct {
	UserID string `json:"user_id"`
	Status bool   `json:"status"`
}
