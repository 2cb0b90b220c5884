package model

import "time"

// User 用户表，对应 users（ADMIN / OWNER / MANAGER / DRIVER 共用）
type User struct {
	UserID      string `gorm:"type:varchar(20);primaryKey"   json:"user_id"`
	Name        string `gorm:"type:varchar(100);not null"    json:"name"`
	EmailID     string `gorm:"type:varchar(255);not null"    json:"email_id"`
	PhoneNumber string `gorm:"type:varchar(20);not null"     json:"phone_number"`
	Password    string `gorm:"type:varchar(255);not null"    json:"-"`
	RoleID      int    `gorm:"not null"                      json:"role_id"`
	Status      bool   `gorm:"not null"                      json:"status"`
	CreatedModel

	// 关联
	Role *Role `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// RoleName 关联角色名，未预加载时为空
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.RoleName
}

// Role 角色字典表，对应 role_master
type Role struct {
	RoleID   int    `gorm:"primaryKey"                json:"role_id"`
	RoleName string `gorm:"type:varchar(20);not null" json:"role_name"`
}

// TableName 指定表名
func (Role) TableName() string { return "role_master" }

// LocationAccess 用户-地点授权表，对应 location_access
type LocationAccess struct {
	AccessID   int64  `gorm:"primaryKey;autoIncrement"     json:"access_id"`
	UserID     string `gorm:"type:varchar(20);not null"    json:"user_id"`
	LocationID string `gorm:"type:varchar(20);not null"    json:"location_id"`
	CreatedModel
}

// TableName 指定表名
func (LocationAccess) TableName() string { return "location_access" }

// OwnerSummary 业主列表行（含授权地点数量）
type OwnerSummary struct {
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	EmailID       string    `json:"email_id"`
	PhoneNumber   string    `json:"phone_number"`
	Status        bool      `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	RoleName      string    `json:"role_name"`
	LocationCount int64     `json:"location_count"`
}
