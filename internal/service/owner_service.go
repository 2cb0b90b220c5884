package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/idgen"
	"github.com/Angithapraveen/smart-valet/internal/model"
	"github.com/Angithapraveen/smart-valet/internal/repository"
	pkgerrors "github.com/Angithapraveen/smart-valet/pkg/errors"
	"github.com/Angithapraveen/smart-valet/pkg/password"
)

// ── 业主模块业务错误 ──

var (
	ErrOwnerFieldsRequired = errors.New("name, email_id, phone_number, password, and location_id are required")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrInvalidPhone        = errors.New("invalid phone number format")
	ErrEmailExists         = errors.New("email already exists")
	ErrPhoneExists         = errors.New("phone number already exists")
	ErrLocationUnavailable = errors.New("location not found or inactive")
	ErrOwnerRoleMissing    = errors.New("OWNER role not found in system")
	ErrOwnerIDConflict     = errors.New("owner id already exists")
	ErrOwnerIDExhausted    = errors.New("owner sequence exhausted for this year")
	ErrOwnerNotFound       = errors.New("owner not found")
)

const minPhoneLength = 10

var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// newOwnerValidator 注册 phone 校验标签：仅数字、+、-、空白与括号，至少 10 个字符
func newOwnerValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) >= minPhoneLength && phonePattern.MatchString(s)
	})
	return v
}

// OwnerService 业主业务接口
type OwnerService interface {
	// Create 创建业主账号并授权到一个地点（同一事务）
	Create(ctx context.Context, req *dto.CreateOwnerRequest) (*dto.CreateOwnerResponse, error)
	List(ctx context.Context) ([]model.OwnerSummary, error)
	UpdateStatus(ctx context.Context, id string, status bool) error
}

type ownerService struct {
	repo        *repository.Repository
	gen         *idgen.Generator
	hasher      *password.Hasher
	validate    *validator.Validate
	maxAttempts int
	logger      *zap.Logger
}

// NewOwnerService 创建 OwnerService 实例
func NewOwnerService(
	repo *repository.Repository,
	gen *idgen.Generator,
	hasher *password.Hasher,
	maxAttempts int,
	logger *zap.Logger,
) OwnerService {
	return &ownerService{
		repo:        repo,
		gen:         gen,
		hasher:      hasher,
		validate:    newOwnerValidator(),
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *ownerService) Create(ctx context.Context, req *dto.CreateOwnerRequest) (*dto.CreateOwnerResponse, error) {
	// 1. 规范化与格式校验
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.EmailID))
	phone := strings.TrimSpace(req.PhoneNumber)
	locationID := strings.TrimSpace(req.LocationID)
	if name == "" || email == "" || phone == "" || req.Password == "" || locationID == "" {
		return nil, ErrOwnerFieldsRequired
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := s.validate.Var(phone, "phone"); err != nil {
		return nil, ErrInvalidPhone
	}

	// 2. 查重（插入时的唯一约束仍是最终依据）
	existing, err := s.repo.User.FindByEmailOrPhone(ctx, email, phone)
	if err != nil {
		s.logger.Error("业主查重失败", zap.Error(err))
		return nil, err
	}
	for _, u := range existing {
		if strings.EqualFold(u.EmailID, email) {
			return nil, ErrEmailExists
		}
	}
	if len(existing) > 0 {
		return nil, ErrPhoneExists
	}

	// 3. 地点必须存在且启用
	if _, err := s.repo.Location.GetActiveByID(ctx, locationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationUnavailable
		}
		s.logger.Error("查询地点失败", zap.String("location_id", locationID), zap.Error(err))
		return nil, err
	}

	// 4. OWNER 角色
	role, err := s.repo.Role.GetByName(ctx, access.RoleOwner.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("role_master 缺少 OWNER 角色")
			return nil, ErrOwnerRoleMissing
		}
		s.logger.Error("查询角色失败", zap.Error(err))
		return nil, err
	}

	// 5. 哈希密码
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	// 6. 生成编号并在同一事务中写入用户与授权；编号撞键时整体回滚后重试
	var (
		owner *model.User
		grant *model.LocationAccess
	)
	err = idgen.Retry(ctx, s.maxAttempts, isOwnerIDConflict, func(attempt int) error {
		id, err := s.gen.OwnerID(ctx)
		if err != nil {
			return err
		}
		u := &model.User{
			UserID:      id,
			Name:        name,
			EmailID:     email,
			PhoneNumber: phone,
			Password:    hashed,
			RoleID:      role.RoleID,
			Status:      true,
		}
		la := &model.LocationAccess{UserID: id, LocationID: locationID}

		err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
			if err := tx.User.Create(ctx, u); err != nil {
				return err
			}
			return tx.LocationAccess.Create(ctx, la)
		})
		if err != nil {
			if isOwnerIDConflict(err) {
				s.logger.Warn("业主编号冲突，重新生成", zap.String("user_id", id), zap.Int("attempt", attempt))
			}
			return err
		}
		owner, grant = u, la
		return nil
	})
	if err != nil {
		return nil, s.translateCreateError(err)
	}

	s.logger.Info("业主创建成功",
		zap.String("user_id", owner.UserID),
		zap.String("location_id", locationID),
	)

	return &dto.CreateOwnerResponse{
		Owner: dto.OwnerInfo{
			UserID:      owner.UserID,
			Name:        owner.Name,
			EmailID:     owner.EmailID,
			PhoneNumber: owner.PhoneNumber,
			RoleID:      owner.RoleID,
		},
		LocationAccess: *grant,
	}, nil
}

func (s *ownerService) translateCreateError(err error) error {
	switch {
	case errors.Is(err, idgen.ErrDuplicateID):
		return fmt.Errorf("%w: %w", ErrOwnerIDConflict, err)
	case errors.Is(err, idgen.ErrSequenceExhausted):
		return ErrOwnerIDExhausted
	case pkgerrors.IsDuplicate(err, pkgerrors.ConstraintUserEmail):
		return ErrEmailExists
	case pkgerrors.IsDuplicate(err, pkgerrors.ConstraintUserPhone):
		return ErrPhoneExists
	case errors.Is(err, pkgerrors.ErrForeignKey):
		// 地点在查重与写入之间被移除
		return ErrLocationUnavailable
	}
	s.logger.Error("创建业主失败", zap.Error(err))
	return err
}

func isOwnerIDConflict(err error) bool {
	return pkgerrors.IsDuplicate(err, pkgerrors.ConstraintUserPK)
}

// ────────────────────── List ──────────────────────

func (s *ownerService) List(ctx context.Context) ([]model.OwnerSummary, error) {
	owners, err := s.repo.User.ListOwners(ctx)
	if err != nil {
		s.logger.Error("列出业主失败", zap.Error(err))
		return nil, err
	}
	if owners == nil {
		owners = []model.OwnerSummary{}
	}
	return owners, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *ownerService) UpdateStatus(ctx context.Context, id string, status bool) error {
	role, err := s.repo.Role.GetByName(ctx, access.RoleOwner.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOwnerRoleMissing
		}
		s.logger.Error("查询角色失败", zap.Error(err))
		return err
	}

	if err := s.repo.User.UpdateStatus(ctx, id, role.RoleID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOwnerNotFound
		}
		s.logger.Error("更新业主状态失败", zap.String("user_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("业主状态已更新", zap.String("user_id", id), zap.Bool("status", status))
	return nil
}
