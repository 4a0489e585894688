package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/resp"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

// Recovery 捕获处理器中的 panic，记录堆栈并返回统一的 500 响应
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// http.ErrAbortHandler 是主动中断，交还给 net/http 处理
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				reqID := RequestIDFromContext(r.Context())
				fields := []zap.Field{
					zap.Any("panic", rec),
					zap.String("request_id", reqID),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				}
				if s := session.FromContext(r.Context()); s != nil {
					fields = append(fields, zap.String("admin_id", s.User.ID))
				}
				logger.Error("panic recovered", fields...)
				resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "internal server error", reqID, "")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
