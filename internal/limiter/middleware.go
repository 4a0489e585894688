package limiter

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/resp"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

// MiddlewareConfig 中间件配置
type MiddlewareConfig struct {
	Limiter Limiter

	// KeyGenerator 生成限流 key，默认按管理员 ID，其次客户端 IP
	KeyGenerator func(*gin.Context) string

	// Skip 返回 true 时跳过限流检查
	Skip func(*gin.Context) bool

	// FailOpen 限流器出错时放行请求（只记录日志）
	FailOpen bool

	Logger *zap.Logger
}

// AdminKey 按会话中的管理员 ID 限流，没有会话时按 IP
func AdminKey(c *gin.Context) string {
	if s := session.FromContext(c.Request.Context()); s != nil && s.User.ID != "" {
		return "admin:" + s.User.ID
	}
	return "ip:" + c.ClientIP()
}

// RateLimitMiddleware 创建限流中间件
func RateLimitMiddleware(config MiddlewareConfig) gin.HandlerFunc {
	if config.KeyGenerator == nil {
		config.KeyGenerator = AdminKey
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if config.Skip != nil && config.Skip(c) {
			c.Next()
			return
		}

		key := config.KeyGenerator(c)
		reqID := requestID(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		result, err := config.Limiter.Allow(ctx, key)
		if err != nil {
			config.Logger.Error("rate limiter failed",
				zap.String("request_id", reqID),
				zap.String("key", key),
				zap.Error(err),
			)
			if config.FailOpen {
				c.Next()
				return
			}
			resp.Error(c.Writer, http.StatusInternalServerError, resp.CodeInternalError, "rate limiter unavailable", reqID, "")
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			config.Logger.Warn("rate limit reached",
				zap.String("request_id", reqID),
				zap.String("key", key),
				zap.Duration("retry_after", result.RetryAfter),
			)
			resp.Error(c.Writer, http.StatusTooManyRequests, resp.CodeTooManyRequests,
				"Quá nhiều yêu cầu, vui lòng thử lại sau", reqID, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *LimitResult) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
	if result.RetryAfter > 0 {
		secs := int64(math.Ceil(result.RetryAfter.Seconds()))
		c.Header("Retry-After", fmt.Sprintf("%d", secs))
	}
}

// requestID 请求 ID 由外层 RequestID 中间件写在响应头上
func requestID(c *gin.Context) string {
	return c.Writer.Header().Get("X-Request-ID")
}
