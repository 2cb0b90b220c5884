package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Angithapraveen/smart-valet/config"
	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/model"
	"github.com/Angithapraveen/smart-valet/pkg/jwt"
	"github.com/Angithapraveen/smart-valet/pkg/password"
)

// ── 测试辅助 ──

type fakeTokenStore struct {
	revoked map[string]time.Duration
	err     error
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{revoked: make(map[string]time.Duration)}
}

func (f *fakeTokenStore) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if ttl > 0 {
		f.revoked[jti] = ttl
	}
	return nil
}

func (f *fakeTokenStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

func testJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  24 * time.Hour,
	})
}

func hashForTest(t *testing.T, secret string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt 失败: %v", err)
	}
	return string(h)
}

func setupTestAuthService(t *testing.T, tokens TokenStore) (AuthService, *mockDB, *jwt.Manager) {
	t.Helper()
	db := newMockDB()
	db.addUser(&model.User{
		UserID: "ADM-001", Name: "Admin", EmailID: "admin@valet.io", PhoneNumber: "9000000001",
		Password: hashForTest(t, "admin-pass"), RoleID: 1, Status: true,
	})
	db.addUser(&model.User{
		UserID: "OWN-26-0001", Name: "Owner", EmailID: "owner@valet.io", PhoneNumber: "9000000002",
		Password: "legacy-plain", RoleID: 2, Status: true,
	})
	db.addUser(&model.User{
		UserID: "DRV-001", Name: "Driver", EmailID: "driver@valet.io", PhoneNumber: "9000000004",
		Password: hashForTest(t, "driver-pass"), RoleID: 4, Status: true,
	})
	db.addUser(&model.User{
		UserID: "MGR-OFF", Name: "Disabled", EmailID: "off@valet.io", PhoneNumber: "9000000003",
		Password: hashForTest(t, "off-pass"), RoleID: 3, Status: false,
	})

	jwtMgr := testJWTManager()
	hasher := password.NewHasher(bcrypt.MinCost, true)
	svc := NewAuthService(newMockRepository(db), jwtMgr, hasher, tokens, zap.NewNop())
	return svc, db, jwtMgr
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, jwtMgr := setupTestAuthService(t, nil)

	for _, loginID := range []string{"ADM-001", "admin@valet.io", "ADMIN@Valet.io", "9000000001", " ADM-001 "} {
		resp, err := svc.Login(context.Background(), &dto.LoginRequest{LoginID: loginID, Password: "admin-pass"})
		if err != nil {
			t.Fatalf("login_id=%q 登录失败: %v", loginID, err)
		}
		if !resp.Success || resp.UserID != "ADM-001" || resp.Role != "ADMIN" || resp.RoleID != 1 {
			t.Errorf("login_id=%q 响应不符: %+v", loginID, resp)
		}

		claims, err := jwtMgr.ParseToken(resp.Token)
		if err != nil {
			t.Fatalf("签发的 Token 无法解析: %v", err)
		}
		if claims.UserID != "ADM-001" || claims.RoleName != "ADMIN" || claims.RoleID != 1 {
			t.Errorf("Token 声明不符: %+v", claims)
		}
	}
}

func TestAuthService_Login_MixedCaseStoredEmail(t *testing.T) {
	svc, db, _ := setupTestAuthService(t, nil)
	db.addUser(&model.User{
		UserID: "MGR-001", Name: "Seeded", EmailID: "Seed.Manager@Valet.io", PhoneNumber: "9000000005",
		Password: hashForTest(t, "seed-pass"), RoleID: 3, Status: true,
	})

	for _, loginID := range []string{"seed.manager@valet.io", "SEED.MANAGER@VALET.IO"} {
		resp, err := svc.Login(context.Background(), &dto.LoginRequest{LoginID: loginID, Password: "seed-pass"})
		if err != nil {
			t.Fatalf("login_id=%q 登录失败: %v", loginID, err)
		}
		if resp.UserID != "MGR-001" {
			t.Errorf("期望 MGR-001，实际=%s", resp.UserID)
		}
	}
}

func TestAuthService_Login_LegacyPlaintext(t *testing.T) {
	svc, _, _ := setupTestAuthService(t, nil)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{LoginID: "owner@valet.io", Password: "legacy-plain"})
	if err != nil {
		t.Fatalf("明文兼容登录失败: %v", err)
	}
	if resp.Role != "OWNER" {
		t.Errorf("期望 role=OWNER，实际=%s", resp.Role)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _, _ := setupTestAuthService(t, nil)

	tests := []struct {
		name    string
		req     dto.LoginRequest
		wantErr error
	}{
		{"用户不存在", dto.LoginRequest{LoginID: "nobody", Password: "x"}, ErrInvalidCredentials},
		{"密码错误", dto.LoginRequest{LoginID: "ADM-001", Password: "wrong"}, ErrInvalidCredentials},
		{"用户已停用", dto.LoginRequest{LoginID: "MGR-OFF", Password: "off-pass"}, ErrInvalidCredentials},
		{"司机-密码正确", dto.LoginRequest{LoginID: "DRV-001", Password: "driver-pass"}, ErrDriverLogin},
		{"司机-密码错误也先返回司机限制", dto.LoginRequest{LoginID: "DRV-001", Password: "wrong"}, ErrDriverLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthService_Login_LegacyDisabled(t *testing.T) {
	db := newMockDB()
	db.addUser(&model.User{
		UserID: "OWN-26-0001", Name: "Owner", EmailID: "owner@valet.io", PhoneNumber: "9000000002",
		Password: "legacy-plain", RoleID: 2, Status: true,
	})
	svc := NewAuthService(newMockRepository(db), testJWTManager(), password.NewHasher(bcrypt.MinCost, false), nil, zap.NewNop())

	_, err := svc.Login(context.Background(), &dto.LoginRequest{LoginID: "OWN-26-0001", Password: "legacy-plain"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("关闭明文兼容后期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	svc, db, _ := setupTestAuthService(t, nil)
	boom := errors.New("connection refused")
	db.queryErr = boom

	_, err := svc.Login(context.Background(), &dto.LoginRequest{LoginID: "ADM-001", Password: "admin-pass"})
	if !errors.Is(err, boom) {
		t.Errorf("期望透传仓储错误，实际: %v", err)
	}
}

// ── Authenticate / Logout 测试 ──

func TestAuthService_Authenticate(t *testing.T) {
	store := newFakeTokenStore()
	svc, db, jwtMgr := setupTestAuthService(t, store)
	ctx := context.Background()

	token, _ := jwtMgr.GenerateToken("ADM-001", "ADMIN", 1)
	session, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate 失败: %v", err)
	}
	if session.Principal.UserID != "ADM-001" || session.Principal.Role != access.RoleAdmin {
		t.Errorf("Principal 不符: %+v", session.Principal)
	}
	if session.TokenID == "" || session.ExpiresAt.IsZero() {
		t.Error("Session 应携带 jti 与过期时间")
	}

	// 注销后 Token 被吊销
	if err := svc.Logout(ctx, session.TokenID, session.ExpiresAt); err != nil {
		t.Fatalf("Logout 失败: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("期望 ErrTokenRevoked，实际: %v", err)
	}

	// 用户被停用后旧 Token 失效
	token2, _ := jwtMgr.GenerateToken("OWN-26-0001", "OWNER", 2)
	db.users["OWN-26-0001"].Status = false
	if _, err := svc.Authenticate(ctx, token2); !errors.Is(err, ErrPrincipalInactive) {
		t.Errorf("期望 ErrPrincipalInactive，实际: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestAuthService_Authenticate_StoreDown(t *testing.T) {
	store := newFakeTokenStore()
	store.err = errors.New("redis down")
	svc, _, jwtMgr := setupTestAuthService(t, store)

	token, _ := jwtMgr.GenerateToken("ADM-001", "ADMIN", 1)
	if _, err := svc.Authenticate(context.Background(), token); err != nil {
		t.Errorf("Redis 不可用时应降级放行，实际: %v", err)
	}
}

func TestAuthService_Logout_NoStore(t *testing.T) {
	svc, _, _ := setupTestAuthService(t, nil)
	if err := svc.Logout(context.Background(), "jti", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("未配置 Redis 时注销应为空操作，实际: %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, _, _ := setupTestAuthService(t, nil)

	p := &access.Principal{UserID: "OWN-26-0001", Name: "Owner", Email: "owner@valet.io", Role: access.RoleOwner, RoleID: 2}
	scope := access.NewScope([]model.Location{{LocationID: "ABC-M26-001", LocationName: "Mall", Status: true}})

	resp := svc.CurrentUser(p, scope)
	if resp.User.Role != "OWNER" || resp.User.RoleName != "OWNER" || resp.User.RoleID != 2 {
		t.Errorf("用户信息不符: %+v", resp.User)
	}
	if len(resp.AccessibleLocations) != 1 || resp.AccessibleLocations[0].LocationID != "ABC-M26-001" {
		t.Errorf("可访问地点不符: %+v", resp.AccessibleLocations)
	}

	empty := svc.CurrentUser(p, access.NewScope(nil))
	if empty.AccessibleLocations == nil {
		t.Error("无地点时应返回空数组而非 null")
	}
}
