package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Angithapraveen/smart-valet/internal/api/middleware"
	"github.com/Angithapraveen/smart-valet/internal/service"
	"github.com/Angithapraveen/smart-valet/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Location  *LocationHandler
	Owner     *OwnerHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Location:  NewLocationHandler(svc.Location),
		Owner:     NewOwnerHandler(svc.Owner),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		Export:    NewExportHandler(svc.Export),
	}
}

// bindJSON 绑定请求体；失败时写入 400（请求体超限时 413），调用方应在返回 false 时直接 return
func bindJSON(c *gin.Context, obj interface{}, message string) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large.")
			return false
		}
		response.BadRequest(c, 10001, message)
		return false
	}
	return true
}
