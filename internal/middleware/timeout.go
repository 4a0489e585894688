package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/resp"
)

// Timeout 为请求上下文设置截止时间。
// 后端调用都携带该上下文，超时后由 HandleTimeout 写出统一的超时响应。
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HandleTimeout 请求上下文已超时或被取消时写出 504 并返回 true
func HandleTimeout(w http.ResponseWriter, r *http.Request) bool {
	err := r.Context().Err()
	if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return false
	}
	reqID := RequestIDFromContext(r.Context())
	resp.Error(w, resp.HTTPStatusFromCode(resp.CodeTimeout), resp.CodeTimeout, "request timeout", reqID, "")
	return true
}
