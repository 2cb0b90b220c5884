package access

import (
	"fmt"
	"strings"
)

// Role 角色枚举（封闭集合）
type Role uint8

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleOwner
	RoleManager
	RoleDriver
)

// Visibility 角色的地点可见性规则
type Visibility uint8

const (
	// VisibilityAll 可见全部启用地点
	VisibilityAll Visibility = iota + 1
	// VisibilityAssigned 仅可见 location_access 中授权且启用的地点
	VisibilityAssigned
)

type policy struct {
	name       string
	visibility Visibility
	// backOffice 是否允许登录本后台（司机走移动端）
	backOffice bool
}

var policies = map[Role]policy{
	RoleAdmin:   {name: "ADMIN", visibility: VisibilityAll, backOffice: true},
	RoleOwner:   {name: "OWNER", visibility: VisibilityAssigned, backOffice: true},
	RoleManager: {name: "MANAGER", visibility: VisibilityAssigned, backOffice: true},
	RoleDriver:  {name: "DRIVER", visibility: VisibilityAssigned, backOffice: false},
}

// ParseRole 将 role_master.role_name 解析为角色枚举
func ParseRole(name string) (Role, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for r, p := range policies {
		if p.name == upper {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("未知角色 %q", name)
}

// String 角色名（与 role_master.role_name 一致）
func (r Role) String() string {
	if p, ok := policies[r]; ok {
		return p.name
	}
	return "UNKNOWN"
}

// Visibility 角色的地点可见性规则；未知角色不可见任何地点
func (r Role) Visibility() Visibility {
	return policies[r].visibility
}

// CanUseBackOffice 角色是否可登录管理后台
func (r Role) CanUseBackOffice() bool {
	return policies[r].backOffice
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	_, ok := policies[r]
	return ok
}
