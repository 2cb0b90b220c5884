package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/model"
	pkgerrors "github.com/Angithapraveen/smart-valet/pkg/errors"
)

// LocationRepository 地点数据访问接口
type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByID(ctx context.Context, id string) (*model.Location, error)
	GetActiveByID(ctx context.Context, id string) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
	ListActive(ctx context.Context) ([]model.Location, error)
	ListActiveByUser(ctx context.Context, userID string) ([]model.Location, error)
	UpdateStatus(ctx context.Context, id string, status bool) (*model.Location, error)
}

type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepo 创建 LocationRepository 实例
func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, loc *model.Location) error {
	return pkgerrors.Translate(r.db.WithContext(ctx).Create(loc).Error)
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Where("location_id = ?", id).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) GetActiveByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND status = ?", id, true).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&locations).Error
	return locations, err
}

func (r *locationRepo) ListActive(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).
		Where("status = ?", true).
		Order("created_at DESC").
		Find(&locations).Error
	return locations, err
}

func (r *locationRepo) ListActiveByUser(ctx context.Context, userID string) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).
		Joins("JOIN location_access la ON la.location_id = locations.location_id").
		Where("la.user_id = ? AND locations.status = ?", userID, true).
		Order("locations.created_at DESC").
		Find(&locations).Error
	return locations, err
}

// UpdateStatus 启用/停用地点，地点不存在时返回 gorm.ErrRecordNotFound
func (r *locationRepo) UpdateStatus(ctx context.Context, id string, status bool) (*model.Location, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("location_id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}
