// Package access 计算已认证用户可操作的地点集合，并校验请求中引用的地点是否在集合内。
//
// ADMIN 隐式拥有全部启用地点；OWNER / MANAGER / DRIVER 仅拥有 location_access 中授权的启用地点。
// 停用地点对所有角色一律不可见。结果按请求计算，不做缓存。
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Angithapraveen/smart-valet/internal/model"
)

var (
	ErrRoleDenied          = errors.New("role not allowed")
	ErrNoLocationsAssigned = errors.New("no locations assigned to this user")
	ErrLocationNotAssigned = errors.New("location not assigned to this user")
	ErrUnauthenticated     = errors.New("authentication required")
)

// Principal 已认证用户
type Principal struct {
	UserID      string
	Name        string
	Email       string
	PhoneNumber string
	Role        Role
	RoleID      int
	Active      bool
}

// RoleDeniedError 角色不在允许列表中
type RoleDeniedError struct {
	Role    Role
	Allowed []Role
}

func (e *RoleDeniedError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, r := range e.Allowed {
		names[i] = r.String()
	}
	return "Access denied. Required role: " + strings.Join(names, " or ")
}

// Is 使 errors.Is(err, ErrRoleDenied) 成立
func (e *RoleDeniedError) Is(target error) bool { return target == ErrRoleDenied }

// RequireRole 校验用户角色是否在接口白名单内
func RequireRole(p *Principal, allowed ...Role) error {
	if p == nil {
		return ErrUnauthenticated
	}
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return &RoleDeniedError{Role: p.Role, Allowed: allowed}
}

// LocationSource 地点数据来源
type LocationSource interface {
	// ListActive 全部启用地点
	ListActive(ctx context.Context) ([]model.Location, error)
	// ListActiveByUser 通过 location_access 授权给用户的启用地点
	ListActiveByUser(ctx context.Context, userID string) ([]model.Location, error)
}

// Scope 用户本次请求可操作的地点集合
type Scope struct {
	locations []model.Location
	ids       map[string]struct{}
}

// NewScope 由地点列表构建集合；停用与重复地点被剔除，保持数据源顺序（最新创建在前）
func NewScope(locations []model.Location) *Scope {
	s := &Scope{ids: make(map[string]struct{}, len(locations))}
	for _, loc := range locations {
		if !loc.Status {
			continue
		}
		if _, dup := s.ids[loc.LocationID]; dup {
			continue
		}
		s.ids[loc.LocationID] = struct{}{}
		s.locations = append(s.locations, loc)
	}
	return s
}

// Locations 集合内的地点
func (s *Scope) Locations() []model.Location {
	if s == nil {
		return nil
	}
	return s.locations
}

// IDs 集合内的地点编号，顺序同 Locations
func (s *Scope) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.locations))
	for i, loc := range s.locations {
		ids[i] = loc.LocationID
	}
	return ids
}

// Len 集合大小
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.locations)
}

// Contains 地点是否在集合内
func (s *Scope) Contains(locationID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[locationID]
	return ok
}

// Allows 请求未引用地点时放行，否则要求地点在集合内
func (s *Scope) Allows(requestedLocationID string) bool {
	return s.Validate(requestedLocationID) == nil
}

// Validate 与 Allows 相同，但区分拒绝原因
func (s *Scope) Validate(requestedLocationID string) error {
	if requestedLocationID == "" {
		return nil
	}
	if s.Len() == 0 {
		return ErrNoLocationsAssigned
	}
	if !s.Contains(requestedLocationID) {
		return ErrLocationNotAssigned
	}
	return nil
}

// Resolver 地点权限解析器
type Resolver struct {
	src LocationSource
}

// NewResolver 创建解析器
func NewResolver(src LocationSource) *Resolver {
	return &Resolver{src: src}
}

// Resolve 按角色可见性规则计算用户可操作的地点集合
func (r *Resolver) Resolve(ctx context.Context, p *Principal) (*Scope, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}

	var (
		locations []model.Location
		err       error
	)
	switch p.Role.Visibility() {
	case VisibilityAll:
		locations, err = r.src.ListActive(ctx)
	case VisibilityAssigned:
		locations, err = r.src.ListActiveByUser(ctx, p.UserID)
	default:
		return NewScope(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询可访问地点失败: %w", err)
	}
	return NewScope(locations), nil
}
