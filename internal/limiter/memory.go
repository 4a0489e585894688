package limiter

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter 进程内令牌桶，每个 key 一个 rate.Limiter
type MemoryLimiter struct {
	config *Config
	limit  rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	now     func() time.Time
}

// NewMemoryLimiter 创建进程内限流器
func NewMemoryLimiter(config *Config) (*MemoryLimiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	perSecond := float64(config.Rate) / config.Window.Seconds()
	return &MemoryLimiter{
		config:  config,
		limit:   rate.Limit(perSecond),
		buckets: make(map[string]*rate.Limiter),
		now:     time.Now,
	}, nil
}

func (m *MemoryLimiter) bucket(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[key]
	if !ok {
		b = rate.NewLimiter(m.limit, int(m.config.Burst))
		m.buckets[key] = b
	}
	return b
}

// Allow 检查是否允许请求通过
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (*LimitResult, error) {
	return m.AllowN(ctx, key, 1)
}

// AllowN 检查是否允许 N 个请求通过，拒绝时不消耗令牌
func (m *MemoryLimiter) AllowN(_ context.Context, key string, n int64) (*LimitResult, error) {
	b := m.bucket(key)
	now := m.now()
	res := &LimitResult{Limit: m.config.Burst}

	if b.AllowN(now, int(n)) {
		res.Allowed = true
		res.Remaining = int64(math.Floor(b.TokensAt(now)))
		return res, nil
	}

	tokens := b.TokensAt(now)
	res.Remaining = int64(math.Max(0, math.Floor(tokens)))
	missing := float64(n) - tokens
	res.RetryAfter = time.Duration(math.Ceil(missing / float64(m.limit) * float64(time.Second)))
	return res, nil
}

// Reset 丢弃 key 的令牌桶，下次请求重新以满桶开始
func (m *MemoryLimiter) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.buckets, key)
	m.mu.Unlock()
	return nil
}
