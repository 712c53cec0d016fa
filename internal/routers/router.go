// Package routers 装配 HTTP 路由与中间件链
package routers

import (
	"time"

	"github.com/haierkeys/shell-history-sync-service/internal/app"
	"github.com/haierkeys/shell-history-sync-service/internal/middleware"
	"github.com/haierkeys/shell-history-sync-service/internal/routers/api_router"
	"github.com/haierkeys/shell-history-sync-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/record",
		FillInterval: time.Second,
		Capacity:     200,
		Quantum:      200,
	},
	limiter.BucketRule{
		Key:          "/history",
		FillInterval: time.Second,
		Capacity:     200,
		Quantum:      200,
	},
)

// NewRouter 创建同步协议路由。路由挂在根路径上，与同步客户端的
// 既有端点布局保持一致
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()

	r := gin.New()

	r.Use(middleware.AppInfo(appContainer.Version().Version))
	r.Use(middleware.Tracer())
	r.Use(middleware.RateLimiter(methodLimiters))
	r.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
	r.Use(middleware.Cors())
	r.Use(middleware.LangWithTranslator(uni))
	r.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
	r.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

	// 创建 Handlers（注入 App Container）
	statusHandler := api_router.NewStatusHandler(appContainer)
	recordHandler := api_router.NewRecordHandler(appContainer)
	syncHandler := api_router.NewSyncHandler(appContainer)

	// 公开端点
	r.GET("/", statusHandler.Index)
	r.GET("/healthz", statusHandler.Health)

	// 认证端点：主体解析器只校验已签发的凭据
	auth := r.Group("", middleware.UserAuthToken(appContainer.TokenManager))
	{
		auth.POST("/record", recordHandler.Push)
		auth.GET("/record", recordHandler.Cursors)
		auth.GET("/record/next", recordHandler.Next)
		auth.DELETE("/store", recordHandler.Wipe)

		auth.POST("/history", syncHandler.AddHistory)
		auth.DELETE("/history", syncHandler.DeleteHistory)

		auth.GET("/sync/count", syncHandler.Count)
		auth.GET("/sync/history", syncHandler.History)
		auth.GET("/sync/status", syncHandler.Status)
		auth.GET("/sync/calendar/:focus", syncHandler.Calendar)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
