package httptransport

import (
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bcsweb/backend/internal/config"
	"bcsweb/backend/internal/health"
	"bcsweb/backend/internal/middleware"
	"bcsweb/backend/internal/monitoring"
	"bcsweb/backend/internal/service"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config  *config.Config
	Intake  *service.IntakeService
	Metrics *monitoring.Metrics
	Health  *health.Checker
	Logger  *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	// 使用自定义中间件替代默认中间件
	router.Use(middleware.RecoveryHandler(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(middleware.DefaultBodyLimit))
	router.Use(middleware.HTTPMetrics(deps.Metrics))

	// CORS 配置：表单由外部站点直接提交，预检请求返回 204
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	handler := NewIntakeHandler(deps.Intake, deps.Logger)

	// 表单端点：公开入口，加一层按 IP 的提交限流
	api := router.Group("/api")
	api.Use(middleware.SubmitRateLimit(rate.Limit(5), 10, deps.Logger))
	{
		api.POST("/careers/apply", handler.CareerApply)
		api.POST("/contact-career", handler.ContactCareer)
		api.POST("/send-email", handler.SendEmail)
	}

	// 落盘的简历通过生成的公开路径直接下载
	router.Static(deps.Config.Upload.PublicPrefix, deps.Config.Upload.Dir)

	// 健康检查与指标端点
	if deps.Health != nil {
		router.GET("/health/live", gin.WrapF(deps.Health.LiveHandler()))
		router.GET("/health/ready", gin.WrapF(deps.Health.ReadyHandler()))
	}
	router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))

	return router
}
