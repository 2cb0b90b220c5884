package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/model"
	pkgerrors "github.com/Angithapraveen/smart-valet/pkg/errors"
)

// LocationAccessRepository 用户-地点授权数据访问接口
type LocationAccessRepository interface {
	Create(ctx context.Context, access *model.LocationAccess) error
	ListByUser(ctx context.Context, userID string) ([]model.LocationAccess, error)
}

type locationAccessRepo struct {
	db *gorm.DB
}

// NewLocationAccessRepo 创建 LocationAccessRepository 实例
func NewLocationAccessRepo(db *gorm.DB) LocationAccessRepository {
	return &locationAccessRepo{db: db}
}

func (r *locationAccessRepo) Create(ctx context.Context, access *model.LocationAccess) error {
	return pkgerrors.Translate(r.db.WithContext(ctx).Create(access).Error)
}

func (r *locationAccessRepo) ListByUser(ctx context.Context, userID string) ([]model.LocationAccess, error) {
	var rows []model.LocationAccess
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("access_id ASC").
		Find(&rows).Error
	return rows, err
}
