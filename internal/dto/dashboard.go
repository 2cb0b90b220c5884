package dto

import "github.com/Angithapraveen/smart-valet/internal/model"

// ── 仪表盘 DTO ──
// 字段名沿用前端约定的 camelCase

// AdminDashboard ADMIN 仪表盘
type AdminDashboard struct {
	Locations         []model.Location  `json:"locations"`
	UserStats         []model.RoleCount `json:"userStats"`
	TotalTransactions int64             `json:"totalTransactions"`
}

// OwnerDashboard OWNER 仪表盘
type OwnerDashboard struct {
	Locations         []model.Location `json:"locations"`
	TotalTransactions int64            `json:"totalTransactions"`
	ActiveParkings    int64            `json:"activeParkings"`
}

// ManagerDashboard MANAGER 仪表盘
type ManagerDashboard struct {
	Location          *model.Location `json:"location"`
	TotalTransactions int64           `json:"totalTransactions"`
	ActiveParkings    int64           `json:"activeParkings"`
	AvailableBlocks   int64           `json:"availableBlocks"`
}
