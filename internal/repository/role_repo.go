package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/model"
)

// RoleRepository 角色字典数据访问接口
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*model.Role, error)
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("role_name = ?", name).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}
