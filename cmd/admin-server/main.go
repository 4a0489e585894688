package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/api"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/cache"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/config"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/limiter"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/logger"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/router"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version,
		logger.WithFile(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays))
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}
	// resp 包写响应失败时通过全局 logger 记录
	zap.ReplaceGlobals(lg)
	return cfg, lg, nil
}

// initRedis 限流使用 redis 存储时建立连接；连接失败返回 nil，由调用方回退到内存
func initRedis(cfg *config.Config, lg *zap.Logger) *cache.RedisCache {
	if !cfg.Limit.Enabled || cfg.Limit.Store != string(limiter.StoreRedis) {
		return nil
	}
	rc, err := cache.NewRedisCache(cache.RedisOptions{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.App.Name + ":",
	})
	if err != nil {
		lg.Sugar().Warnw("failed to connect to Redis, falling back to memory limiter", "addr", cfg.RedisAddr(), "error", err)
		return nil
	}
	lg.Sugar().Infow("redis connected", "addr", cfg.RedisAddr())
	return rc
}

// initLimiter 创建入站限流器，未启用时返回 nil
func initLimiter(cfg *config.Config, rc *cache.RedisCache, lg *zap.Logger) (limiter.Limiter, error) {
	if !cfg.Limit.Enabled {
		lg.Sugar().Infow("rate limit disabled")
		return nil, nil
	}
	lc := &limiter.Config{
		Rate:      cfg.Limit.Rate,
		Window:    cfg.Limit.Window,
		Burst:     cfg.Limit.Burst,
		KeyPrefix: cfg.App.Name + ":limiter",
	}
	if rc != nil {
		lg.Sugar().Infow("rate limit enabled", "store", "redis", "rate", lc.Rate, "window", lc.Window)
		return limiter.New(limiter.StoreRedis, rc.Client(), lc)
	}
	lg.Sugar().Infow("rate limit enabled", "store", "memory", "rate", lc.Rate, "window", lc.Window)
	return limiter.New(limiter.StoreMemory, nil, lc)
}

// initDependencies 组装后端客户端与各资源处理器
func initDependencies(cfg *config.Config, lim limiter.Limiter, lg *zap.Logger) *router.Dependencies {
	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		backend.WithTokenSource(session.TokenFromContext),
		backend.WithRateLimit(cfg.Backend.RateLimit, cfg.Backend.Burst),
		backend.WithLogger(lg),
	)
	be := api.NewBackend(client)
	list := api.ListOptions{DefaultPageSize: cfg.List.DefaultPageSize, MaxPageSize: cfg.List.MaxPageSize}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		lg.Sugar().Warnw("AUTH_JWT_SECRET not set, token signatures are left to the backend")
	}
	return &router.Dependencies{
		CategoryHandler:    api.NewCategoryHandler(be, list, lg),
		SubcategoryHandler: api.NewSubcategoryHandler(be, list, lg),
		ProductHandler:     api.NewProductHandler(be, list, lg),
		OrderHandler:       api.NewOrderHandler(be, list, lg),
		Verify: func(token string) (*session.Session, error) {
			return session.FromToken(token, secret)
		},
		Limiter: lim,
	}
}

// startServer 启动服务器并处理优雅关闭
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr, "backend", cfg.Backend.BaseURL)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

func main() {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	// 2) 可选的 Redis 连接（限流共享计数）
	rc := initRedis(cfg, lg)
	if rc != nil {
		defer func() {
			if err := rc.Close(); err != nil {
				lg.Sugar().Errorw("failed to close redis connection", "err", err)
			}
		}()
	}

	// 3) 入站限流
	lim, err := initLimiter(cfg, rc, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize rate limiter", "err", err)
	}

	// 4) 后端客户端与处理器
	deps := initDependencies(cfg, lim, lg)

	// 5) 路由和中间件
	handler := router.New().Setup(cfg, deps, lg)

	// 6) 启动 HTTP 服务器
	startServer(cfg, handler, lg)
}
