package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/model"
	pkgerrors "github.com/Angithapraveen/smart-valet/pkg/errors"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetActiveByID(ctx context.Context, id string) (*model.User, error)
	// GetActiveByLoginID 登录标识可为 user_id、email_id 或 phone_number
	GetActiveByLoginID(ctx context.Context, loginID string) (*model.User, error)
	// FindByEmailOrPhone 按（已规范化的）邮箱或手机号查找，用于创建前查重
	FindByEmailOrPhone(ctx context.Context, email, phone string) ([]model.User, error)
	ListOwners(ctx context.Context) ([]model.OwnerSummary, error)
	UpdateStatus(ctx context.Context, id string, roleID int, status bool) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return pkgerrors.Translate(r.db.WithContext(ctx).Omit("Role").Create(user).Error)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetActiveByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id = ? AND status = ?", id, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetActiveByLoginID(ctx context.Context, loginID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("(user_id = ? OR LOWER(email_id) = LOWER(?) OR phone_number = ?) AND status = ?", loginID, loginID, loginID, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmailOrPhone(ctx context.Context, email, phone string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email_id) = ? OR phone_number = ?", email, phone).
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListOwners(ctx context.Context) ([]model.OwnerSummary, error) {
	var owners []model.OwnerSummary
	err := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.user_id, u.name, u.email_id, u.phone_number, u.status, u.created_at,
			rm.role_name, COUNT(la.location_id) AS location_count`).
		Joins("JOIN role_master rm ON u.role_id = rm.role_id").
		Joins("LEFT JOIN location_access la ON u.user_id = la.user_id").
		Where("rm.role_name = ?", "OWNER").
		Group("u.user_id, u.name, u.email_id, u.phone_number, u.status, u.created_at, rm.role_name").
		Order("u.created_at DESC").
		Scan(&owners).Error
	return owners, err
}

// UpdateStatus 启用/停用指定角色的用户，用户不存在或角色不符时返回 gorm.ErrRecordNotFound
func (r *userRepo) UpdateStatus(ctx context.Context, id string, roleID int, status bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ? AND role_id = ?", id, roleID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
