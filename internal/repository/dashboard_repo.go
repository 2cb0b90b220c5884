package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/model"
)

// DashboardRepository 仪表盘统计查询
type DashboardRepository interface {
	CountActiveUsersByRole(ctx context.Context) ([]model.RoleCount, error)
	CountAllTransactions(ctx context.Context) (int64, error)
	// CountTransactions 统计指定地点的泊车流水；locationIDs 为空时返回 0
	CountTransactions(ctx context.Context, locationIDs []string) (int64, error)
	// CountActiveParking 统计指定地点中处于活跃状态的泊车流水；locationIDs 为空时返回 0
	CountActiveParking(ctx context.Context, locationIDs []string) (int64, error)
	CountAvailableBlocks(ctx context.Context, locationID string) (int64, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

// NewDashboardRepo 创建 DashboardRepository 实例
func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) CountActiveUsersByRole(ctx context.Context) ([]model.RoleCount, error) {
	var rows []model.RoleCount
	err := r.db.WithContext(ctx).
		Table("users u").
		Select("rm.role_name, COUNT(*) AS count").
		Joins("JOIN role_master rm ON u.role_id = rm.role_id").
		Where("u.status = ?", true).
		Group("rm.role_name").
		Order("rm.role_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) CountAllTransactions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ValetTransaction{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepo) CountTransactions(ctx context.Context, locationIDs []string) (int64, error) {
	if len(locationIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ValetTransaction{}).
		Where("location_id IN ?", locationIDs).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepo) CountActiveParking(ctx context.Context, locationIDs []string) (int64, error) {
	if len(locationIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ValetTransaction{}).
		Where("location_id IN ? AND status IN ?", locationIDs, model.ActiveParkingStatuses).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepo) CountAvailableBlocks(ctx context.Context, locationID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.BlockEntry{}).
		Where("location_id = ? AND status = ?", locationID, model.BlockEntryAvailable).
		Count(&n).Error
	return n, err
}
