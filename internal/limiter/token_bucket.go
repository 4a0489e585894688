package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBucketLimiter 基于 Redis 的令牌桶，网关多实例部署时共享限流状态
type TokenBucketLimiter struct {
	client    redis.Cmdable
	config    *Config
	keyPrefix string
	now       func() time.Time
}

// NewTokenBucketLimiter 创建 Redis 令牌桶限流器
func NewTokenBucketLimiter(client redis.Cmdable, config *Config) (*TokenBucketLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "limiter:tb"
	}
	return &TokenBucketLimiter{client: client, config: config, keyPrefix: prefix, now: time.Now}, nil
}

// 令牌按毫秒连续补充，桶状态存为 hash{tokens, ts}
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local window_ms = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local bucket = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(bucket[1]) or capacity
local ts = tonumber(bucket[2]) or now

local elapsed = math.max(0, now - ts)
tokens = math.min(capacity, tokens + elapsed * rate / window_ms)

local allowed = 0
local retry_ms = 0
if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
else
    retry_ms = math.ceil((requested - tokens) * window_ms / rate)
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now)
redis.call('PEXPIRE', key, window_ms * 2)

return {allowed, math.floor(tokens), retry_ms}
`)

func (tb *TokenBucketLimiter) getKey(key string) string {
	return fmt.Sprintf("%s:%s", tb.keyPrefix, key)
}

// Allow 检查是否允许请求通过
func (tb *TokenBucketLimiter) Allow(ctx context.Context, key string) (*LimitResult, error) {
	return tb.AllowN(ctx, key, 1)
}

// AllowN 检查是否允许 N 个请求通过
func (tb *TokenBucketLimiter) AllowN(ctx context.Context, key string, n int64) (*LimitResult, error) {
	vals, err := tokenBucketScript.Run(ctx, tb.client,
		[]string{tb.getKey(key)},
		tb.config.Burst,
		tb.config.Rate,
		tb.config.Window.Milliseconds(),
		n,
		tb.now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run token bucket script: %w", err)
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("unexpected token bucket result: %v", vals)
	}

	return &LimitResult{
		Allowed:    vals[0] == 1,
		Limit:      tb.config.Burst,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// Reset 删除令牌桶
func (tb *TokenBucketLimiter) Reset(ctx context.Context, key string) error {
	if err := tb.client.Del(ctx, tb.getKey(key)).Err(); err != nil {
		return fmt.Errorf("reset token bucket: %w", err)
	}
	return nil
}
