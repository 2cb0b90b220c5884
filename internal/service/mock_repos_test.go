package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/internal/idgen"
	"github.com/Angithapraveen/smart-valet/internal/model"
	"github.com/Angithapraveen/smart-valet/internal/repository"
	pkgerrors "github.com/Angithapraveen/smart-valet/pkg/errors"
)

// ── 内存数据库 ──
// 所有 mock repo 共享同一个 mockDB，以便事务 mock 能整体快照与回滚。

type mockDB struct {
	users        map[string]*model.User
	roles        map[int]*model.Role
	locations    map[string]*model.Location
	access       []model.LocationAccess
	txns         []model.ValetTransaction
	blocks       []model.BlockEntry
	nextAccessID int64

	// 故障注入：依次返回，用尽后正常执行
	userCreateErrs     []error
	locationCreateErrs []error
	accessCreateErr    error
	queryErr           error
}

func newMockDB() *mockDB {
	return &mockDB{
		users: make(map[string]*model.User),
		roles: map[int]*model.Role{
			1: {RoleID: 1, RoleName: "ADMIN"},
			2: {RoleID: 2, RoleName: "OWNER"},
			3: {RoleID: 3, RoleName: "MANAGER"},
			4: {RoleID: 4, RoleName: "DRIVER"},
		},
		locations: make(map[string]*model.Location),
	}
}

func (db *mockDB) addUser(u *model.User) *model.User {
	if role, ok := db.roles[u.RoleID]; ok {
		u.Role = role
	}
	db.users[u.UserID] = u
	return u
}

func (db *mockDB) addLocation(id string, active bool) *model.Location {
	loc := &model.Location{
		LocationID:        id,
		LocationName:      "Location " + id,
		LocationShortCode: id[:3],
		LocationType:      "MALL",
		ValidFrom:         model.NewDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		Status:            active,
	}
	db.locations[id] = loc
	return loc
}

func (db *mockDB) grant(userID, locationID string) {
	db.nextAccessID++
	db.access = append(db.access, model.LocationAccess{AccessID: db.nextAccessID, UserID: userID, LocationID: locationID})
}

func popErr(q *[]error) error {
	if len(*q) == 0 {
		return nil
	}
	err := (*q)[0]
	*q = (*q)[1:]
	return err
}

type mockSnapshot struct {
	users        map[string]*model.User
	locations    map[string]*model.Location
	access       []model.LocationAccess
	nextAccessID int64
}

func (db *mockDB) snapshot() mockSnapshot {
	s := mockSnapshot{
		users:        make(map[string]*model.User, len(db.users)),
		locations:    make(map[string]*model.Location, len(db.locations)),
		access:       append([]model.LocationAccess(nil), db.access...),
		nextAccessID: db.nextAccessID,
	}
	for k, v := range db.users {
		s.users[k] = v
	}
	for k, v := range db.locations {
		s.locations[k] = v
	}
	return s
}

func (db *mockDB) restore(s mockSnapshot) {
	db.users, db.locations, db.access, db.nextAccessID = s.users, s.locations, s.access, s.nextAccessID
}

// newMockRepository 基于 mockDB 构建 Repository 聚合
func newMockRepository(db *mockDB) *repository.Repository {
	return &repository.Repository{
		User:           &mockUserRepo{db: db},
		Role:           &mockRoleRepo{db: db},
		Location:       &mockLocationRepo{db: db},
		LocationAccess: &mockLocationAccessRepo{db: db},
		Sequence:       &mockSequenceRepo{db: db},
		Dashboard:      &mockDashboardRepo{db: db},
		Tx:             &mockTransactor{db: db},
	}
}

// ── Mock Transactor ──

type mockTransactor struct {
	db *mockDB
}

func (m *mockTransactor) Transaction(_ context.Context, fn func(tx *repository.Repository) error) error {
	snap := m.db.snapshot()
	if err := fn(newMockRepository(m.db)); err != nil {
		m.db.restore(snap)
		return err
	}
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	db *mockDB
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if err := popErr(&m.db.userCreateErrs); err != nil {
		return err
	}
	if _, ok := m.db.users[user.UserID]; ok {
		return &pkgerrors.DuplicateKeyError{Constraint: pkgerrors.ConstraintUserPK}
	}
	for _, u := range m.db.users {
		if u.EmailID == user.EmailID {
			return &pkgerrors.DuplicateKeyError{Constraint: pkgerrors.ConstraintUserEmail}
		}
		if u.PhoneNumber == user.PhoneNumber {
			return &pkgerrors.DuplicateKeyError{Constraint: pkgerrors.ConstraintUserPhone}
		}
	}
	stored := *user
	m.db.addUser(&stored)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.db.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetActiveByID(ctx context.Context, id string) (*model.User, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Status {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetActiveByLoginID(_ context.Context, loginID string) (*model.User, error) {
	if m.db.queryErr != nil {
		return nil, m.db.queryErr
	}
	for _, u := range m.db.users {
		if !u.Status {
			continue
		}
		if u.UserID == loginID || strings.EqualFold(u.EmailID, loginID) || u.PhoneNumber == loginID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmailOrPhone(_ context.Context, email, phone string) ([]model.User, error) {
	var out []model.User
	for _, u := range m.db.users {
		if strings.ToLower(u.EmailID) == email || u.PhoneNumber == phone {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) ListOwners(_ context.Context) ([]model.OwnerSummary, error) {
	var out []model.OwnerSummary
	for _, u := range m.db.users {
		if u.RoleName() != "OWNER" {
			continue
		}
		var n int64
		for _, a := range m.db.access {
			if a.UserID == u.UserID {
				n++
			}
		}
		out = append(out, model.OwnerSummary{
			UserID:        u.UserID,
			Name:          u.Name,
			EmailID:       u.EmailID,
			PhoneNumber:   u.PhoneNumber,
			Status:        u.Status,
			RoleName:      u.RoleName(),
			LocationCount: n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID > out[j].UserID })
	return out, nil
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, id string, roleID int, status bool) error {
	u, ok := m.db.users[id]
	if !ok || u.RoleID != roleID {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	return nil
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	db *mockDB
}

func (m *mockRoleRepo) GetByName(_ context.Context, name string) (*model.Role, error) {
	for _, r := range m.db.roles {
		if r.RoleName == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	db *mockDB
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if err := popErr(&m.db.locationCreateErrs); err != nil {
		return err
	}
	if _, ok := m.db.locations[loc.LocationID]; ok {
		return &pkgerrors.DuplicateKeyError{Constraint: pkgerrors.ConstraintLocationPK}
	}
	stored := *loc
	m.db.locations[loc.LocationID] = &stored
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.db.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) GetActiveByID(ctx context.Context, id string) (*model.Location, error) {
	l, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.Status {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (m *mockLocationRepo) List(_ context.Context) ([]model.Location, error) {
	if m.db.queryErr != nil {
		return nil, m.db.queryErr
	}
	var out []model.Location
	for _, l := range m.db.locations {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (m *mockLocationRepo) ListActive(ctx context.Context) ([]model.Location, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Location
	for _, l := range all {
		if l.Status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLocationRepo) ListActiveByUser(_ context.Context, userID string) ([]model.Location, error) {
	var out []model.Location
	for _, a := range m.db.access {
		if a.UserID != userID {
			continue
		}
		if l, ok := m.db.locations[a.LocationID]; ok && l.Status {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLocationRepo) UpdateStatus(_ context.Context, id string, status bool) (*model.Location, error) {
	l, ok := m.db.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	l.Status = status
	return l, nil
}

// ── Mock LocationAccessRepository ──

type mockLocationAccessRepo struct {
	db *mockDB
}

func (m *mockLocationAccessRepo) Create(_ context.Context, la *model.LocationAccess) error {
	if m.db.accessCreateErr != nil {
		return m.db.accessCreateErr
	}
	if _, ok := m.db.locations[la.LocationID]; !ok {
		return pkgerrors.ErrForeignKey
	}
	m.db.nextAccessID++
	la.AccessID = m.db.nextAccessID
	m.db.access = append(m.db.access, *la)
	return nil
}

func (m *mockLocationAccessRepo) ListByUser(_ context.Context, userID string) ([]model.LocationAccess, error) {
	var out []model.LocationAccess
	for _, a := range m.db.access {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ── Mock SequenceRepository ──

type mockSequenceRepo struct {
	db *mockDB
}

func (m *mockSequenceRepo) IDsLike(_ context.Context, scope idgen.Scope, _ string) ([]string, error) {
	var ids []string
	switch scope.String() {
	case idgen.ScopeLocation.String():
		for id := range m.db.locations {
			ids = append(ids, id)
		}
	case idgen.ScopeOwner.String():
		for id := range m.db.users {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ── Mock DashboardRepository ──

type mockDashboardRepo struct {
	db *mockDB
}

func (m *mockDashboardRepo) CountActiveUsersByRole(_ context.Context) ([]model.RoleCount, error) {
	if m.db.queryErr != nil {
		return nil, m.db.queryErr
	}
	counts := make(map[string]int64)
	for _, u := range m.db.users {
		if u.Status {
			counts[u.RoleName()]++
		}
	}
	var out []model.RoleCount
	for name, n := range counts {
		out = append(out, model.RoleCount{RoleName: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoleName < out[j].RoleName })
	return out, nil
}

func (m *mockDashboardRepo) CountAllTransactions(_ context.Context) (int64, error) {
	return int64(len(m.db.txns)), nil
}

func (m *mockDashboardRepo) CountTransactions(_ context.Context, locationIDs []string) (int64, error) {
	var n int64
	for _, t := range m.db.txns {
		if contains(locationIDs, t.LocationID) {
			n++
		}
	}
	return n, nil
}

func (m *mockDashboardRepo) CountActiveParking(_ context.Context, locationIDs []string) (int64, error) {
	var n int64
	for _, t := range m.db.txns {
		if contains(locationIDs, t.LocationID) && contains(model.ActiveParkingStatuses, t.Status) {
			n++
		}
	}
	return n, nil
}

func (m *mockDashboardRepo) CountAvailableBlocks(_ context.Context, locationID string) (int64, error) {
	var n int64
	for _, b := range m.db.blocks {
		if b.LocationID == locationID && b.Status == model.BlockEntryAvailable {
			n++
		}
	}
	return n, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
