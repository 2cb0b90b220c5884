package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User           UserRepository
	Role           RoleRepository
	Location       LocationRepository
	LocationAccess LocationAccessRepository
	Sequence       SequenceRepository
	Dashboard      DashboardRepository
	Tx             Transactor
}

// Transactor 在单个数据库事务中执行 fn；fn 返回错误或 panic 时整体回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *Repository) error) error
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:           NewUserRepo(db),
		Role:           NewRoleRepo(db),
		Location:       NewLocationRepo(db),
		LocationAccess: NewLocationAccessRepo(db),
		Sequence:       NewSequenceRepo(db),
		Dashboard:      NewDashboardRepo(db),
		Tx:             &gormTransactor{db: db},
	}
}

type gormTransactor struct {
	db *gorm.DB
}

// Transaction 基于 gorm 事务，事务内的 Repository 共享同一连接
func (t *gormTransactor) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
