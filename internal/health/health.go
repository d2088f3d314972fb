package health

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"
)

// Checker 健康检查器
type Checker struct {
	health    healthcheck.Handler
	uploadDir string
	logger    *zap.Logger
}

// NewChecker 创建健康检查器。
// 上传目录是唯一的外部资源，就绪检查以它的可写性为准。
func NewChecker(uploadDir string, logger *zap.Logger) *Checker {
	c := &Checker{
		health:    healthcheck.NewHandler(),
		uploadDir: uploadDir,
		logger:    logger,
	}

	c.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(200))
	c.health.AddReadinessCheck("upload-dir", c.checkUploadDir)

	return c
}

// checkUploadDir 确认上传目录存在且可写
func (c *Checker) checkUploadDir() error {
	info, err := os.Stat(c.uploadDir)
	if err != nil {
		return fmt.Errorf("upload directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload path %q is not a directory", c.uploadDir)
	}

	probe := filepath.Join(c.uploadDir, fmt.Sprintf(".healthcheck-%d", time.Now().UnixNano()))
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("upload directory not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		c.logger.Warn("failed to remove health probe file", zap.String("path", probe), zap.Error(err))
	}

	return nil
}

// LiveHandler 返回存活检查处理器
func (c *Checker) LiveHandler() http.HandlerFunc {
	return c.health.LiveEndpoint
}

// ReadyHandler 返回就绪检查处理器
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return c.health.ReadyEndpoint
}
