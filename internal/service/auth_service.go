package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/model"
	"github.com/Angithapraveen/smart-valet/internal/repository"
	"github.com/Angithapraveen/smart-valet/pkg/jwt"
	"github.com/Angithapraveen/smart-valet/pkg/password"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDriverLogin        = errors.New("driver login is available only through mobile app")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrPrincipalInactive  = errors.New("user not found or inactive")
)

// Session 一次已验证的会话
type Session struct {
	Principal *access.Principal
	TokenID   string
	ExpiresAt time.Time
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Authenticate 校验 Token 并重新加载当前仍启用的用户
	Authenticate(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	CurrentUser(p *access.Principal, scope *access.Scope) *dto.CurrentUserResponse
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	hasher *password.Hasher
	tokens TokenStore
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	hasher *password.Hasher,
	tokens TokenStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 按 user_id / 邮箱 / 手机号查找启用用户
	user, err := s.repo.User.GetActiveByLoginID(ctx, strings.TrimSpace(req.LoginID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询登录用户失败", zap.Error(err))
		return nil, err
	}

	role, err := access.ParseRole(user.RoleName())
	if err != nil {
		s.logger.Warn("用户角色无法识别", zap.String("user_id", user.UserID), zap.Int("role_id", user.RoleID))
		return nil, ErrInvalidCredentials
	}

	// 2. 司机只能通过移动端登录（先于密码校验）
	if !role.CanUseBackOffice() {
		return nil, ErrDriverLogin
	}

	// 3. 校验密码
	if err := s.hasher.Verify(user.Password, req.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.Error("密码校验异常", zap.String("user_id", user.UserID), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	// 4. 签发 Token
	token, err := s.jwtMgr.GenerateToken(user.UserID, role.String(), user.RoleID)
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录成功", zap.String("user_id", user.UserID), zap.String("role", role.String()))

	return &dto.LoginResponse{
		Success: true,
		UserID:  user.UserID,
		Name:    user.Name,
		Role:    role.String(),
		RoleID:  user.RoleID,
		Token:   token,
	}, nil
}

// ────────────────────── Authenticate ──────────────────────

func (s *authService) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}

	if s.tokens != nil && claims.ID != "" {
		revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// Redis 不可用时不阻断请求
			s.logger.Warn("检查 Token 黑名单失败", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.repo.User.GetActiveByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalInactive
		}
		s.logger.Error("加载会话用户失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}

	p, err := principalFromUser(user)
	if err != nil {
		s.logger.Warn("会话用户角色无法识别", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, ErrPrincipalInactive
	}

	session := &Session{Principal: p, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.tokens == nil || tokenID == "" {
		return nil
	}
	if err := s.tokens.BlacklistToken(ctx, tokenID, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", tokenID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── CurrentUser ──────────────────────

func (s *authService) CurrentUser(p *access.Principal, scope *access.Scope) *dto.CurrentUserResponse {
	return &dto.CurrentUserResponse{
		User: dto.CurrentUser{
			UserID:      p.UserID,
			Name:        p.Name,
			EmailID:     p.Email,
			PhoneNumber: p.PhoneNumber,
			RoleName:    p.Role.String(),
			Role:        p.Role.String(),
			RoleID:      p.RoleID,
		},
		AccessibleLocations: dto.NewLocationSummaries(scope.Locations()),
	}
}

// ── 内部辅助方法 ──

func principalFromUser(u *model.User) (*access.Principal, error) {
	role, err := access.ParseRole(u.RoleName())
	if err != nil {
		return nil, err
	}
	return &access.Principal{
		UserID:      u.UserID,
		Name:        u.Name,
		Email:       u.EmailID,
		PhoneNumber: u.PhoneNumber,
		Role:        role,
		RoleID:      u.RoleID,
		Active:      u.Status,
	}, nil
}
