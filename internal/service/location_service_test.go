package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/idgen"
	"github.com/Angithapraveen/smart-valet/internal/model"
	pkgerrors "github.com/Angithapraveen/smart-valet/pkg/errors"
)

// ── 测试辅助 ──

func fixedYear(year int) idgen.Option {
	return idgen.WithClock(func() time.Time {
		return time.Date(year, 6, 15, 12, 0, 0, 0, time.UTC)
	})
}

func setupTestLocationService() (LocationService, *mockDB) {
	db := newMockDB()
	repo := newMockRepository(db)
	gen := idgen.New(repo.Sequence, fixedYear(2026))
	return NewLocationService(repo, gen, 3, zap.NewNop()), db
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool     { return &b }

func validLocationRequest() *dto.CreateLocationRequest {
	return &dto.CreateLocationRequest{
		LocationName:      " Phoenix Mall ",
		LocationShortCode: "phx",
		LocationType:      "mall",
		Address:           strPtr("  1 Main Road "),
		ValidFrom:         "2026-01-01",
	}
}

var locationIDShape = regexp.MustCompile(`^[A-Z]{3}-[A-Z]\d{2}-\d{3}$`)

// ── Create 测试 ──

func TestLocationService_Create_Success(t *testing.T) {
	svc, db := setupTestLocationService()

	loc, err := svc.Create(context.Background(), validLocationRequest())
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if loc.LocationID != "PHX-M26-001" {
		t.Errorf("期望编号 PHX-M26-001，实际=%s", loc.LocationID)
	}
	if loc.LocationName != "Phoenix Mall" || loc.LocationShortCode != "PHX" || loc.LocationType != "MALL" {
		t.Errorf("字段未规范化: %+v", loc)
	}
	if loc.Address == nil || *loc.Address != "1 Main Road" {
		t.Errorf("地址应去除首尾空白，实际=%v", loc.Address)
	}
	if !loc.Status {
		t.Error("status 缺省应为 true")
	}
	if loc.ValidTo != nil {
		t.Error("未提供 valid_to 时应为空")
	}
	if _, ok := db.locations[loc.LocationID]; !ok {
		t.Error("地点未写入仓储")
	}

	// 序列跨短码全局递增
	req := validLocationRequest()
	req.LocationShortCode = "abc"
	req.LocationType = "hotel"
	next, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("第二次 Create 失败: %v", err)
	}
	if next.LocationID != "ABC-H26-002" {
		t.Errorf("期望编号 ABC-H26-002，实际=%s", next.LocationID)
	}
}

func TestLocationService_Create_TypeCanonicalization(t *testing.T) {
	tests := []struct {
		in       string
		wantType string
		wantID   string
	}{
		{"  ", "OTHER", "PHX-O26-001"},
		{"Other", "OTHER", "PHX-O26-001"},
		{" hotel ", "HOTEL", "PHX-H26-001"},
		{"airport", "AIRPORT", "PHX-A26-001"},
		{"Valet", "VALET", "PHX-V26-001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			svc, _ := setupTestLocationService()
			req := validLocationRequest()
			req.LocationType = tt.in
			loc, err := svc.Create(context.Background(), req)
			if err != nil {
				t.Fatalf("Create 失败: %v", err)
			}
			if loc.LocationType != tt.wantType || loc.LocationID != tt.wantID {
				t.Errorf("期望 %s/%s，实际 %s/%s", tt.wantType, tt.wantID, loc.LocationType, loc.LocationID)
			}
			if !locationIDShape.MatchString(loc.LocationID) {
				t.Errorf("编号格式不符: %s", loc.LocationID)
			}
		})
	}
}

func TestLocationService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *dto.CreateLocationRequest)
		wantErr error
	}{
		{"缺少名称", func(r *dto.CreateLocationRequest) { r.LocationName = "  " }, ErrLocationFieldsRequired},
		{"缺少类型", func(r *dto.CreateLocationRequest) { r.LocationType = "" }, ErrLocationFieldsRequired},
		{"缺少起始日期", func(r *dto.CreateLocationRequest) { r.ValidFrom = "" }, ErrLocationFieldsRequired},
		{"短码两位", func(r *dto.CreateLocationRequest) { r.LocationShortCode = "ab" }, ErrShortCodeLength},
		{"短码四位", func(r *dto.CreateLocationRequest) { r.LocationShortCode = "abcd" }, ErrShortCodeLength},
		{"短码含数字", func(r *dto.CreateLocationRequest) { r.LocationShortCode = "a1c" }, ErrShortCodeLetters},
		{"类型非字母开头", func(r *dto.CreateLocationRequest) { r.LocationType = "9zone" }, ErrLocationTypeInvalid},
		{"类型数字开头带空格", func(r *dto.CreateLocationRequest) { r.LocationType = "24x7 Garage" }, ErrLocationTypeInvalid},
		{"类型非 ASCII 字母开头", func(r *dto.CreateLocationRequest) { r.LocationType = "école" }, ErrLocationTypeInvalid},
		{"日期格式错误", func(r *dto.CreateLocationRequest) { r.ValidFrom = "01/02/2026" }, ErrInvalidDate},
		{"结束日期格式错误", func(r *dto.CreateLocationRequest) { r.ValidTo = strPtr("soon") }, ErrInvalidDate},
		{"结束早于开始", func(r *dto.CreateLocationRequest) { r.ValidTo = strPtr("2025-12-31") }, ErrValidityRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setupTestLocationService()
			req := validLocationRequest()
			tt.mutate(req)
			_, err := svc.Create(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
			if len(db.locations) != 0 {
				t.Error("校验失败时不应写入")
			}
		})
	}
}

func TestLocationService_Create_ExplicitFields(t *testing.T) {
	svc, _ := setupTestLocationService()
	req := validLocationRequest()
	req.Status = boolPtr(false)
	req.ValidTo = strPtr("2026-12-31")
	req.Address = strPtr("   ")

	loc, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if loc.Status {
		t.Error("显式 status=false 应被保留")
	}
	if loc.ValidTo == nil || loc.ValidTo.String() != "2026-12-31" {
		t.Errorf("valid_to 不符: %v", loc.ValidTo)
	}
	if loc.Address != nil {
		t.Error("空白地址应存为 NULL")
	}
}

func TestLocationService_Create_RetryOnConflict(t *testing.T) {
	svc, db := setupTestLocationService()
	// 模拟并发：第一次写入撞主键
	db.locationCreateErrs = []error{&pkgerrors.DuplicateKeyError{Constraint: pkgerrors.ConstraintLocationPK}}

	loc, err := svc.Create(context.Background(), validLocationRequest())
	if err != nil {
		t.Fatalf("重试后应成功: %v", err)
	}
	if loc.LocationID != "PHX-M26-001" {
		t.Errorf("期望编号 PHX-M26-001，实际=%s", loc.LocationID)
	}
}

func TestLocationService_Create_RetryExhausted(t *testing.T) {
	svc, db := setupTestLocationService()
	dup := &pkgerrors.DuplicateKeyError{Constraint: pkgerrors.ConstraintLocationPK}
	db.locationCreateErrs = []error{dup, dup, dup}

	_, err := svc.Create(context.Background(), validLocationRequest())
	if !errors.Is(err, ErrLocationIDConflict) || !errors.Is(err, idgen.ErrDuplicateID) {
		t.Errorf("期望 ErrLocationIDConflict，实际: %v", err)
	}
	if len(db.locations) != 0 {
		t.Error("重试耗尽时不应有写入")
	}
}

func TestLocationService_Create_OtherErrorNotRetried(t *testing.T) {
	svc, db := setupTestLocationService()
	boom := errors.New("disk full")
	db.locationCreateErrs = []error{boom, boom}

	_, err := svc.Create(context.Background(), validLocationRequest())
	if !errors.Is(err, boom) {
		t.Errorf("期望透传非冲突错误，实际: %v", err)
	}
	if len(db.locationCreateErrs) != 1 {
		t.Error("非冲突错误不应重试")
	}
}

func TestLocationService_Create_SequenceExhausted(t *testing.T) {
	svc, db := setupTestLocationService()
	db.addLocation("ZZZ-M26-999", true)

	_, err := svc.Create(context.Background(), validLocationRequest())
	if !errors.Is(err, ErrLocationIDExhausted) {
		t.Errorf("期望 ErrLocationIDExhausted，实际: %v", err)
	}
}

// ── List / UpdateStatus / GetScoped 测试 ──

func TestLocationService_List(t *testing.T) {
	svc, db := setupTestLocationService()

	list, err := svc.List(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("空列表应返回非 nil 空切片，实际 %v err=%v", list, err)
	}

	db.addLocation("ABC-M26-001", true)
	db.addLocation("DEF-H26-002", false)
	list, _ = svc.List(context.Background())
	if len(list) != 2 {
		t.Errorf("管理员列表应包含停用地点，期望 2，实际 %d", len(list))
	}
}

func TestLocationService_UpdateStatus(t *testing.T) {
	svc, db := setupTestLocationService()
	db.addLocation("ABC-M26-001", true)

	loc, err := svc.UpdateStatus(context.Background(), "ABC-M26-001", false)
	if err != nil {
		t.Fatalf("UpdateStatus 失败: %v", err)
	}
	if loc.Status {
		t.Error("期望地点已停用")
	}

	if _, err := svc.UpdateStatus(context.Background(), "NOP-M26-001", true); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("期望 ErrLocationNotFound，实际: %v", err)
	}
}

func TestLocationService_GetScoped(t *testing.T) {
	svc, db := setupTestLocationService()
	a := db.addLocation("ABC-M26-001", true)
	db.addLocation("DEF-H26-002", true)
	scope := access.NewScope([]model.Location{*a})

	loc, err := svc.GetScoped(context.Background(), scope, "ABC-M26-001")
	if err != nil || loc.LocationID != "ABC-M26-001" {
		t.Fatalf("范围内地点应可读取，实际 %v err=%v", loc, err)
	}

	if _, err := svc.GetScoped(context.Background(), scope, "DEF-H26-002"); !errors.Is(err, access.ErrLocationNotAssigned) {
		t.Errorf("期望 ErrLocationNotAssigned，实际: %v", err)
	}
	if _, err := svc.GetScoped(context.Background(), access.NewScope(nil), "ABC-M26-001"); !errors.Is(err, access.ErrNoLocationsAssigned) {
		t.Errorf("期望 ErrNoLocationsAssigned，实际: %v", err)
	}

	// 解析范围之后地点被停用
	a.Status = false
	if _, err := svc.GetScoped(context.Background(), scope, "ABC-M26-001"); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("期望 ErrLocationNotFound，实际: %v", err)
	}
}
