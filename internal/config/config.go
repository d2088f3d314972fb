package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 8080
}

// SMTPConfig 定义对外发送通知邮件所用的 SMTP 账号配置
type SMTPConfig struct {
	Host    string        // SMTP 服务器地址，默认 "smtp.gmail.com"
	Port    int           // SMTP 端口；465 使用隐式 TLS，其余端口使用 STARTTLS
	User    string        // SMTP 账号（同时作为默认发件地址）
	Pass    string        // SMTP 密码 / 应用专用密码
	From    string        // 发件人覆盖值，留空时根据邮件类型生成
	To      string        // 运营收件地址，默认与 User 相同
	Timeout time.Duration // 单次发送的超时上限，默认 15s
}

// UploadConfig 定义简历附件的落盘位置
type UploadConfig struct {
	Dir          string // 附件存储目录，默认 "public/uploads/resumes"
	PublicPrefix string // 对外可访问的 URL 前缀，默认 "/uploads/resumes"
}

// PublicConfig 定义对外链接的生成参数
type PublicConfig struct {
	BaseURL string // 站点基础 URL，用于拼接简历下载链接
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
	File        string // 日志文件路径，留空表示只输出到标准输出
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server ServerConfig // HTTP 服务器配置
	SMTP   SMTPConfig   // 通知邮件配置
	Upload UploadConfig // 附件存储配置
	Public PublicConfig // 对外链接配置
	CORS   CORSConfig   // 跨域配置
	Log    LogConfig    // 日志配置
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 注意：这里不设置环境变量前缀，SMTP_USER / SMTP_PASS / SMTP_FROM /
// PUBLIC_BASE_URL 等变量名与站点部署环境中已有的名称保持一致。
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.user", "")
	viper.SetDefault("smtp.pass", "")
	viper.SetDefault("smtp.from", "")
	viper.SetDefault("smtp.to", "")
	viper.SetDefault("smtp.timeout", "15s")
	viper.SetDefault("upload.dir", filepath.Join("public", "uploads", "resumes"))
	viper.SetDefault("upload.public_prefix", "/uploads/resumes")
	viper.SetDefault("public.base_url", "http://localhost:8080")
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("log.file", "")

	smtpPort := viper.GetInt("smtp.port")
	if smtpPort <= 0 || smtpPort > 65535 {
		return nil, fmt.Errorf("invalid smtp.port: %d", smtpPort)
	}

	// 生产模式下缺少 SMTP 凭证时直接拒绝启动，
	// 否则服务会在每次提交时静默丢失通知邮件
	if !viper.GetBool("log.development") {
		if viper.GetString("smtp.user") == "" || viper.GetString("smtp.pass") == "" {
			return nil, fmt.Errorf("smtp credentials required: set SMTP_USER and SMTP_PASS")
		}
	}

	timeout, err := time.ParseDuration(viper.GetString("smtp.timeout"))
	if err != nil || timeout <= 0 {
		timeout = 15 * time.Second
	}

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	// 基础 URL 末尾的斜杠会导致链接出现双斜杠，这里统一去掉
	baseURL := strings.TrimRight(viper.GetString("public.base_url"), "/")

	// 运营收件地址默认与 SMTP 账号一致
	smtpTo := viper.GetString("smtp.to")
	if smtpTo == "" {
		smtpTo = viper.GetString("smtp.user")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		SMTP: SMTPConfig{
			Host:    viper.GetString("smtp.host"),
			Port:    smtpPort,
			User:    viper.GetString("smtp.user"),
			Pass:    viper.GetString("smtp.pass"),
			From:    viper.GetString("smtp.from"),
			To:      smtpTo,
			Timeout: timeout,
		},
		Upload: UploadConfig{
			Dir:          viper.GetString("upload.dir"),
			PublicPrefix: viper.GetString("upload.public_prefix"),
		},
		Public: PublicConfig{
			BaseURL: baseURL,
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
			File:        viper.GetString("log.file"),
		},
	}

	return cfg, nil
}

// parseList 将逗号分隔的字符串解析为字符串切片
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env（用于从 backend/ 子目录运行的情况）
//
// 已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
