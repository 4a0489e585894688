// Package config 负责加载管理后台的运行配置：先读取 .env 文件，再按结构体标签解析环境变量。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config 汇总应用的全部配置
type Config struct {
	App     AppConfig     `envPrefix:"APP_"`
	Log     LogConfig     `envPrefix:"LOG_"`
	Backend BackendConfig `envPrefix:"BACKEND_"`
	Auth    AuthConfig    `envPrefix:"AUTH_"`
	Session SessionConfig `envPrefix:"SESSION_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`
	CORS    CORSConfig    `envPrefix:"CORS_"`
	List    ListConfig    `envPrefix:"LIST_"`
	Limit   LimitConfig   `envPrefix:"LIMIT_"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"tp-shop-admin"`
	Env             string        `env:"ENV" envDefault:"dev"` // dev / test / prod
	Version         string        `env:"VERSION" envDefault:"0.1.0"`
	Port            int           `env:"PORT" envDefault:"8081"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LogConfig 日志配置，File 为空时只输出到标准输出
type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	Encoding   string `env:"ENCODING" envDefault:"json"` // json / console
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"14"`
}

// BackendConfig 电商后端 REST API 的访问配置
type BackendConfig struct {
	BaseURL   string        `env:"BASE_URL" envDefault:"http://localhost:5000"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"15s"`
	RateLimit float64       `env:"RATE_LIMIT" envDefault:"20"` // 每秒请求数，<=0 表示不限流
	Burst     int           `env:"BURST" envDefault:"10"`
}

// AuthConfig 管理端鉴权配置
type AuthConfig struct {
	// JWTSecret 与后端共享的签名密钥；为空时只检查令牌格式与过期时间，签名由后端校验
	JWTSecret    string `env:"JWT_SECRET"`
	RequireAdmin bool   `env:"REQUIRE_ADMIN" envDefault:"true"`
}

// SessionConfig 会话存储配置
type SessionConfig struct {
	Store string        `env:"STORE" envDefault:"memory"` // memory / redis / none
	TTL   time.Duration `env:"TTL" envDefault:"24h"`
	// Token 用于终端控制台启动时写入会话（相当于已完成登录）
	Token string `env:"TOKEN"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization,X-Request-ID"`
}

// ListConfig 列表分页配置
type ListConfig struct {
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"100"`
}

// LimitConfig 网关入站限流：每个管理员每 Window 最多 Rate 个请求，允许 Burst 的突发
type LimitConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Store    string        `env:"STORE" envDefault:"memory"` // memory / redis
	Rate     int64         `env:"RATE" envDefault:"300"`
	Window   time.Duration `env:"WINDOW" envDefault:"1m"`
	Burst    int64         `env:"BURST" envDefault:"60"`
	FailOpen bool          `env:"FAIL_OPEN" envDefault:"true"`
}

// Load 加载配置：.env 文件不存在时忽略，环境变量优先于 .env
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// 文件缺失是正常情况，其他读取错误需要暴露
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置项的取值范围
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT: %d", c.App.Port)
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_BASE_URL: %q", c.Backend.BaseURL)
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("invalid BACKEND_TIMEOUT: %s", c.Backend.Timeout)
	}
	switch c.Session.Store {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("invalid SESSION_STORE: %q", c.Session.Store)
	}
	if c.Limit.Enabled {
		switch c.Limit.Store {
		case "memory", "redis":
		default:
			return fmt.Errorf("invalid LIMIT_STORE: %q", c.Limit.Store)
		}
		if c.Limit.Rate <= 0 || c.Limit.Window <= 0 {
			return fmt.Errorf("invalid LIMIT_RATE/LIMIT_WINDOW: %d per %s", c.Limit.Rate, c.Limit.Window)
		}
	}
	if c.List.DefaultPageSize <= 0 {
		return fmt.Errorf("invalid LIST_DEFAULT_PAGE_SIZE: %d", c.List.DefaultPageSize)
	}
	if c.List.MaxPageSize < c.List.DefaultPageSize {
		return fmt.Errorf("LIST_MAX_PAGE_SIZE (%d) must not be smaller than LIST_DEFAULT_PAGE_SIZE (%d)",
			c.List.MaxPageSize, c.List.DefaultPageSize)
	}
	return nil
}

// IsProd 是否为生产环境
func (c *Config) IsProd() bool {
	return c.App.Env == "prod"
}

// RedisAddr 返回 host:port 形式的 Redis 地址
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
