package api_router

import (
	"net/http"
	"time"

	"github.com/haierkeys/shell-history-sync-service/internal/app"
	pkgapp "github.com/haierkeys/shell-history-sync-service/pkg/app"
	"github.com/haierkeys/shell-history-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// homage ships on the index endpoint, as the protocol's reference servers do.
const homage = `"Through the fathomless deeps of space swims the star turtle Great A'Tuin, bearing on its back the four giant elephants who carry on their shoulders the mass of the Discworld." -- Sir Terry Pratchett`

// StatusHandler 服务状态处理器
type StatusHandler struct {
	*Handler
}

// NewStatusHandler 创建服务状态处理器实例
func NewStatusHandler(a *app.App) *StatusHandler {
	return &StatusHandler{Handler: NewHandler(a)}
}

type indexResponse struct {
	Homage        string `json:"homage"`
	ServerVersion string `json:"server_version"`
	Version       string `json:"version"`
	TotalHistory  uint64 `json:"total_history"`
}

// Index 公开的服务信息端点，total_history 为全系统游标总和
// GET /
func (h *StatusHandler) Index(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	total, err := h.App.SyncService.StoreTotal()
	if err != nil {
		response.ToResponse(code.ErrorStatusGetFailed)
		return
	}

	response.ToResponse(code.Success.WithData(&indexResponse{
		Homage:        homage,
		ServerVersion: h.App.Version().Version,
		Version:       app.APIVersion,
		TotalHistory:  total,
	}))
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string  `json:"status"`   // "healthy" 或 "unhealthy"
	Version  string  `json:"version"`  // 服务版本号
	Uptime   float64 `json:"uptime"`   // 运行时间（秒）
	Database string  `json:"database"` // "connected" 或 "error"
}

// Health 健康检查接口，包含数据库连通性
// GET /healthz
func (h *StatusHandler) Health(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	health := &HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
	}

	if err := h.App.DB.Raw("SELECT 1").Error; err != nil {
		health.Status = "unhealthy"
		health.Database = "error"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	response.ToResponse(code.Success.WithData(health))
}
