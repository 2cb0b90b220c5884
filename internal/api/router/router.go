package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Angithapraveen/smart-valet/config"
	"github.com/Angithapraveen/smart-valet/internal/access"
	"github.com/Angithapraveen/smart-valet/internal/api/handler"
	"github.com/Angithapraveen/smart-valet/internal/api/middleware"
	"github.com/Angithapraveen/smart-valet/internal/service"
	"github.com/Angithapraveen/smart-valet/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil（登录限流降级放行）
func Setup(cfg *config.Config, h *handler.Handler, svc *service.Service, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	if cfg.Server.IsDevelopment {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders(cfg.Server.IsDevelopment))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db))

	authn := middleware.JWTAuth(svc.Auth, logger)
	scope := middleware.AttachLocationAccess(svc.Resolver, logger)

	api := r.Group("/api")
	{
		// 认证模块
		auth := api.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger), h.Auth.Login)
			auth.GET("/me", authn, scope, h.Auth.Me)
			auth.POST("/logout", authn, h.Auth.Logout)
		}

		// 管理员后台
		admin := api.Group("/admin", authn, middleware.RoleAuth(access.RoleAdmin))
		{
			admin.POST("/locations", h.Location.CreateLocation)
			admin.GET("/locations", h.Location.ListLocations)
			admin.GET("/locations/export", h.Export.ExportLocations)
			admin.PUT("/locations/:id/status", h.Location.UpdateLocationStatus)

			admin.POST("/owners", h.Owner.CreateOwner)
			admin.GET("/owners", h.Owner.ListOwners)
			admin.PUT("/owners/:id/status", h.Owner.UpdateOwnerStatus)
		}

		// 仪表盘（按角色解析地点范围）
		dashboard := api.Group("/dashboard", authn, scope)
		{
			dashboard.GET("/admin", middleware.RoleAuth(access.RoleAdmin), h.Dashboard.Admin)
			dashboard.GET("/owner", middleware.RoleAuth(access.RoleOwner), h.Dashboard.Owner)
			dashboard.GET("/manager", middleware.RoleAuth(access.RoleManager), h.Dashboard.Manager)
		}

		// 地点范围内的只读访问
		locations := api.Group("/locations", authn,
			middleware.RoleAuth(access.RoleAdmin, access.RoleOwner, access.RoleManager),
			scope, middleware.ValidateLocationAccess(),
		)
		{
			locations.GET("/:locationId", h.Location.GetLocation)
		}
	}

	return r
}

// healthCheck 检查数据库连通性
func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
