package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/idgen"
	"github.com/Angithapraveen/smart-valet/internal/model"
	"github.com/Angithapraveen/smart-valet/internal/repository"
	pkgerrors "github.com/Angithapraveen/smart-valet/pkg/errors"
)

// ── 地点模块业务错误 ──

var (
	ErrLocationFieldsRequired = errors.New("location_name, location_short_code, location_type and valid_from are required")
	ErrShortCodeLength        = errors.New("location short code must be exactly 3 characters")
	ErrShortCodeLetters       = errors.New("location short code must contain only letters A-Z")
	ErrLocationTypeInvalid    = errors.New("location_type must start with a letter A-Z")
	ErrInvalidDate            = errors.New("invalid date")
	ErrValidityRange          = errors.New("valid_to must not be earlier than valid_from")
	ErrLocationNotFound       = errors.New("location not found")
	ErrLocationIDConflict     = errors.New("location id already exists")
	ErrLocationIDExhausted    = errors.New("location sequence exhausted for this year")
)

// defaultLocationType 未填写类型时的取值
const defaultLocationType = "OTHER"

// LocationService 地点业务接口
type LocationService interface {
	Create(ctx context.Context, req *dto.CreateLocationRequest) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
	UpdateStatus(ctx context.Context, id string, status bool) (*model.Location, error)
	// GetScoped 返回用户地点范围内的启用地点
	GetScoped(ctx context.Context, scope *access.Scope, id string) (*model.Location, error)
}

type locationService struct {
	repo        *repository.Repository
	gen         *idgen.Generator
	maxAttempts int
	logger      *zap.Logger
}

// NewLocationService 创建 LocationService 实例
func NewLocationService(repo *repository.Repository, gen *idgen.Generator, maxAttempts int, logger *zap.Logger) LocationService {
	return &locationService{repo: repo, gen: gen, maxAttempts: maxAttempts, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *locationService) Create(ctx context.Context, req *dto.CreateLocationRequest) (*model.Location, error) {
	base, err := s.buildLocation(req)
	if err != nil {
		return nil, err
	}

	var created *model.Location
	err = idgen.Retry(ctx, s.maxAttempts, isLocationIDConflict, func(attempt int) error {
		id, err := s.gen.LocationID(ctx, base.LocationShortCode, base.LocationType)
		if err != nil {
			return err
		}
		loc := *base
		loc.LocationID = id
		if err := s.repo.Location.Create(ctx, &loc); err != nil {
			if isLocationIDConflict(err) {
				s.logger.Warn("地点编号冲突，重新生成", zap.String("location_id", id), zap.Int("attempt", attempt))
			}
			return err
		}
		created = &loc
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, idgen.ErrDuplicateID):
			return nil, fmt.Errorf("%w: %w", ErrLocationIDConflict, err)
		case errors.Is(err, idgen.ErrSequenceExhausted):
			return nil, ErrLocationIDExhausted
		}
		s.logger.Error("创建地点失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("地点创建成功", zap.String("location_id", created.LocationID))
	return created, nil
}

// buildLocation 校验并规范化请求，返回尚未分配编号的地点
func (s *locationService) buildLocation(req *dto.CreateLocationRequest) (*model.Location, error) {
	name := strings.TrimSpace(req.LocationName)
	rawCode := strings.TrimSpace(req.LocationShortCode)
	validFrom := strings.TrimSpace(req.ValidFrom)
	// location_type 仅要求字段存在，纯空白按 OTHER 处理
	if name == "" || rawCode == "" || req.LocationType == "" || validFrom == "" {
		return nil, ErrLocationFieldsRequired
	}

	code, err := idgen.NormalizeShortCode(rawCode)
	switch {
	case errors.Is(err, idgen.ErrShortCodeLength):
		return nil, ErrShortCodeLength
	case err != nil:
		return nil, ErrShortCodeLetters
	}

	category := CanonicalLocationType(req.LocationType)
	if c := category[0]; c < 'A' || c > 'Z' {
		return nil, ErrLocationTypeInvalid
	}

	from, err := model.ParseDate(validFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: valid_from", ErrInvalidDate)
	}

	loc := &model.Location{
		LocationName:      name,
		LocationShortCode: code,
		LocationType:      category,
		ValidFrom:         from,
		Status:            req.Status == nil || *req.Status,
	}

	if req.ValidTo != nil && strings.TrimSpace(*req.ValidTo) != "" {
		to, err := model.ParseDate(*req.ValidTo)
		if err != nil {
			return nil, fmt.Errorf("%w: valid_to", ErrInvalidDate)
		}
		if to.Before(from.Time) {
			return nil, ErrValidityRange
		}
		loc.ValidTo = &to
	}

	if req.Address != nil {
		if addr := strings.TrimSpace(*req.Address); addr != "" {
			loc.Address = &addr
		}
	}
	return loc, nil
}

// CanonicalLocationType 地点类型去空白并转大写，空值为 OTHER
func CanonicalLocationType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return defaultLocationType
	}
	return cases.Upper(language.Und).String(t)
}

func isLocationIDConflict(err error) bool {
	return pkgerrors.IsDuplicate(err, pkgerrors.ConstraintLocationPK)
}

// ────────────────────── List ──────────────────────

func (s *locationService) List(ctx context.Context) ([]model.Location, error) {
	locations, err := s.repo.Location.List(ctx)
	if err != nil {
		s.logger.Error("列出地点失败", zap.Error(err))
		return nil, err
	}
	if locations == nil {
		locations = []model.Location{}
	}
	return locations, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *locationService) UpdateStatus(ctx context.Context, id string, status bool) (*model.Location, error) {
	loc, err := s.repo.Location.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("更新地点状态失败", zap.String("location_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("地点状态已更新", zap.String("location_id", id), zap.Bool("status", status))
	return loc, nil
}

// ────────────────────── GetScoped ──────────────────────

func (s *locationService) GetScoped(ctx context.Context, scope *access.Scope, id string) (*model.Location, error) {
	if err := scope.Validate(id); err != nil {
		return nil, err
	}
	loc, err := s.repo.Location.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询地点失败", zap.String("location_id", id), zap.Error(err))
		return nil, err
	}
	return loc, nil
}
