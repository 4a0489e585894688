// Package limiter 提供管理网关的入站限流：按管理员（或客户端 IP）限制请求频率，
// 避免批量脚本把请求原样压到电商后端。
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimitResult 限流结果
type LimitResult struct {
	Allowed    bool          `json:"allowed"`     // 是否允许通过
	Limit      int64         `json:"limit"`       // 桶容量
	Remaining  int64         `json:"remaining"`   // 剩余令牌
	RetryAfter time.Duration `json:"retry_after"` // 建议重试时间
}

// Limiter 限流器接口
type Limiter interface {
	// Allow 检查是否允许一个请求通过
	Allow(ctx context.Context, key string) (*LimitResult, error)

	// AllowN 检查是否允许 N 个请求通过
	AllowN(ctx context.Context, key string, n int64) (*LimitResult, error)

	// Reset 重置限流状态
	Reset(ctx context.Context, key string) error
}

// Config 令牌桶配置：每个 Window 补充 Rate 个令牌，桶容量为 Burst
type Config struct {
	Rate      int64
	Window    time.Duration
	Burst     int64
	KeyPrefix string
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("limiter config is nil")
	}
	if c.Rate <= 0 {
		return fmt.Errorf("invalid limiter rate: %d", c.Rate)
	}
	if c.Window <= 0 {
		return fmt.Errorf("invalid limiter window: %s", c.Window)
	}
	if c.Burst <= 0 {
		c.Burst = c.Rate
	}
	return nil
}

// Store 限流状态的存放位置
type Store string

const (
	StoreMemory Store = "memory" // 单实例进程内
	StoreRedis  Store = "redis"  // 多实例共享
)

// New 按存放位置创建限流器；选择 redis 但没有客户端时退回进程内实现
func New(store Store, client redis.Cmdable, cfg *Config) (Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == StoreRedis && client != nil {
		return NewTokenBucketLimiter(client, cfg)
	}
	return NewMemoryLimiter(cfg)
}
