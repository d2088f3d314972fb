package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bcsweb/backend/internal/config"
	"bcsweb/backend/internal/health"
	"bcsweb/backend/internal/logger"
	"bcsweb/backend/internal/mailer"
	"bcsweb/backend/internal/monitoring"
	"bcsweb/backend/internal/service"
	"bcsweb/backend/internal/storage/filesystem"
	httptransport "bcsweb/backend/internal/transport/http"
)

// main 启动表单接收服务。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     cfg.Log.File,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	log.Info("starting intake server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 生产模式下缺少凭证在 config.Load 中已经报错，这里只剩开发模式
	if cfg.SMTP.User == "" || cfg.SMTP.Pass == "" {
		log.Warn("SMTP credentials are not configured, notification emails will fail")
	}

	// 初始化附件存储
	store, err := filesystem.NewStore(cfg.Upload.Dir, cfg.Upload.PublicPrefix)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize attachment storage: %v", err))
	}
	log.Info("attachment storage initialized", zap.String("path", cfg.Upload.Dir))

	// 初始化监控与健康检查
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	healthChecker := health.NewChecker(cfg.Upload.Dir, log)

	// 组装接收管线
	notifier := mailer.NewMailer(cfg.SMTP, cfg.Public.BaseURL, log)
	intake := service.NewIntakeService(store, notifier, metrics, log)

	// 创建 HTTP 服务器
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:  cfg,
		Intake:  intake,
		Metrics: metrics,
		Health:  healthChecker,
		Logger:  log,
	})

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
	}

	log.Info("server stopped")
	_ = log.Sync()
}
