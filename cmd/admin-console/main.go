package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/cache"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/config"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/console"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/logger"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

const defaultLogFile = "logs/admin-console.log"

// initConfigAndLogger 初始化配置和日志器。终端界面占用标准输出，日志只写文件
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	file := cfg.Log.File
	if file == "" {
		file = defaultLogFile
	}
	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name+"-console", cfg.App.Version,
		logger.WithFile(file, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays),
		logger.WithoutStdout())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}
	return cfg, lg, nil
}

// initSessionStore 会话存储：redis 连接失败时回退到内存
func initSessionStore(cfg *config.Config, lg *zap.Logger) cache.Cache {
	switch cfg.Session.Store {
	case "redis":
		rc, err := cache.NewRedisCache(cache.RedisOptions{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.App.Name + ":",
		})
		if err != nil {
			lg.Sugar().Warnw("failed to connect to Redis, falling back to memory session store", "error", err)
			return cache.NewMemoryCache()
		}
		lg.Sugar().Infow("session store", "type", "redis", "addr", cfg.RedisAddr())
		return rc
	case "none":
		lg.Sugar().Infow("session store", "type", "none")
		return cache.NewNullCache()
	default:
		lg.Sugar().Infow("session store", "type", "memory")
		return cache.NewMemoryCache()
	}
}

// startSession 写入 SESSION_TOKEN 给出的令牌（如有），再从存储读取会话
func startSession(ctx context.Context, cfg *config.Config, mgr *session.Manager) (*session.Session, error) {
	if tok := cfg.Session.Token; tok != "" {
		s, err := session.FromToken(tok, cfg.Auth.JWTSecret)
		if err != nil {
			return nil, err
		}
		if err := mgr.Save(ctx, s); err != nil {
			return nil, err
		}
	}
	if cfg.Session.Store == "none" {
		s := mgr.Current()
		if s == nil {
			return nil, session.ErrNoSession
		}
		if cfg.Auth.RequireAdmin && !s.User.IsAdmin() {
			return nil, session.ErrNotAdmin
		}
		return s, nil
	}
	return mgr.Init(ctx)
}

func run() error {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	// 2) 会话
	store := initSessionStore(cfg, lg)
	defer func() { _ = store.Close() }()
	mgr := session.NewManager(store,
		session.WithSecret(cfg.Auth.JWTSecret),
		session.WithTTL(cfg.Session.TTL),
		session.WithRequireAdmin(cfg.Auth.RequireAdmin),
	)
	s, err := startSession(context.Background(), cfg, mgr)
	if err != nil {
		lg.Sugar().Warnw("no usable admin session", "err", err)
		return fmt.Errorf("không có phiên đăng nhập quản trị hợp lệ (đặt SESSION_TOKEN): %w", err)
	}
	lg.Sugar().Infow("session started", "admin_id", s.User.ID, "expires_at", s.ExpiresAt)

	// 3) 后端客户端
	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		backend.WithTokenSource(mgr.Token),
		backend.WithRateLimit(cfg.Backend.RateLimit, cfg.Backend.Burst),
		backend.WithLogger(lg),
	)

	// 4) 终端界面
	model := console.New(console.Resources{
		Categories:    client.Categories(),
		Subcategories: client.Subcategories(),
		Products:      client.Products(),
		Variants:      client.Variants(),
		Orders:        client.Orders(),
	}, console.Options{
		PageSize: cfg.List.DefaultPageSize,
		Timeout:  cfg.Backend.Timeout,
		Logger:   lg,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.SetFlags(0)
		log.Print(err)
		os.Exit(1)
	}
}
