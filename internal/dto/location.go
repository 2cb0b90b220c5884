package dto

import "github.com/Angithapraveen/smart-valet/internal/model"

// ── 地点模块 DTO ──

// CreateLocationRequest 创建地点请求
type CreateLocationRequest struct {
	LocationName      string  `json:"location_name"       binding:"required"`
	LocationShortCode string  `json:"location_short_code" binding:"required"`
	LocationType      string  `json:"location_type"       binding:"required"`
	Address           *string `json:"address"`
	ValidFrom         string  `json:"valid_from"          binding:"required"`
	ValidTo           *string `json:"valid_to"`
	// Status 缺省为 true
	Status *bool `json:"status"`
}

// UpdateStatusRequest 启用/停用请求（地点、业主共用）
type UpdateStatusRequest struct {
	Status *bool `json:"status" binding:"required"`
}

// LocationSummary 用户可访问地点的摘要
type LocationSummary struct {
	LocationID   string  `json:"location_id"`
	LocationName string  `json:"location_name"`
	LocationType string  `json:"location_type"`
	Address      *string `json:"address"`
	Status       bool    `json:"status"`
}

// NewLocationSummaries 转换为摘要列表，空输入返回空切片
func NewLocationSummaries(locations []model.Location) []LocationSummary {
	out := make([]LocationSummary, 0, len(locations))
	for _, l := range locations {
		out = append(out, LocationSummary{
			LocationID:   l.LocationID,
			LocationName: l.LocationName,
			LocationType: l.LocationType,
			Address:      l.Address,
			Status:       l.Status,
		})
	}
	return out
}
