package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/dto"
	"github.com/Angithapraveen/smart-valet/internal/model"
	"github.com/Angithapraveen/smart-valet/internal/repository"
)

// DashboardService 仪表盘统计接口
//
// 地点范围由中间件按角色解析后传入；各项计数并发查询。
type DashboardService interface {
	Admin(ctx context.Context, scope *access.Scope) (*dto.AdminDashboard, error)
	Owner(ctx context.Context, scope *access.Scope) (*dto.OwnerDashboard, error)
	// Manager 经理按约定只有一个地点，取范围内的第一个
	Manager(ctx context.Context, scope *access.Scope) (*dto.ManagerDashboard, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Admin(ctx context.Context, scope *access.Scope) (*dto.AdminDashboard, error) {
	out := &dto.AdminDashboard{Locations: scopeLocations(scope)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.repo.Dashboard.CountActiveUsersByRole(gctx)
		if stats == nil {
			stats = []model.RoleCount{}
		}
		out.UserStats = stats
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Dashboard.CountAllTransactions(gctx)
		out.TotalTransactions = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载管理员仪表盘失败", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *dashboardService) Owner(ctx context.Context, scope *access.Scope) (*dto.OwnerDashboard, error) {
	out := &dto.OwnerDashboard{Locations: scopeLocations(scope)}
	if scope.Len() == 0 {
		return out, nil
	}

	ids := scope.IDs()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Dashboard.CountTransactions(gctx, ids)
		out.TotalTransactions = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Dashboard.CountActiveParking(gctx, ids)
		out.ActiveParkings = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载业主仪表盘失败", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *dashboardService) Manager(ctx context.Context, scope *access.Scope) (*dto.ManagerDashboard, error) {
	out := &dto.ManagerDashboard{}
	if scope.Len() == 0 {
		return out, nil
	}

	loc := scope.Locations()[0]
	out.Location = &loc
	ids := []string{loc.LocationID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Dashboard.CountTransactions(gctx, ids)
		out.TotalTransactions = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Dashboard.CountActiveParking(gctx, ids)
		out.ActiveParkings = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Dashboard.CountAvailableBlocks(gctx, loc.LocationID)
		out.AvailableBlocks = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载经理仪表盘失败", zap.String("location_id", loc.LocationID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func scopeLocations(scope *access.Scope) []model.Location {
	locs := scope.Locations()
	if locs == nil {
		return []model.Location{}
	}
	return locs
}
