package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Angithapraveen/smart-valet/config"
	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/idgen"
	"github.com/Angithapraveen/smart-valet/internal/repository"
	"github.com/Angithapraveen/smart-valet/pkg/jwt"
	"github.com/Angithapraveen/smart-valet/pkg/password"
)

// TokenStore Token 黑名单存储（Redis）；未配置时为 nil，注销与吊销检查降级为空操作
type TokenStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Location  LocationService
	Owner     OwnerService
	Dashboard DashboardService
	Export    ExportService
	// Resolver 供中间件计算请求的地点范围
	Resolver *access.Resolver
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) *Service {
	gen := idgen.New(repo.Sequence)
	hasher := password.NewHasher(cfg.Auth.BcryptCost, cfg.Auth.AllowLegacyPlaintext)

	return &Service{
		Auth:      NewAuthService(repo, jwtMgr, hasher, tokens, logger),
		Location:  NewLocationService(repo, gen, cfg.IDGen.MaxAttempts, logger),
		Owner:     NewOwnerService(repo, gen, hasher, cfg.IDGen.MaxAttempts, logger),
		Dashboard: NewDashboardService(repo, logger),
		Export:    NewExportService(repo, logger),
		Resolver:  access.NewResolver(repo.Location),
	}
}
