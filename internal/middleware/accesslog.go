package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

// AccessLog 记录每个请求的方法、路径、状态码、耗时与操作的管理员。
// 4xx 记为 warn，5xx 记为 error。
func AccessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			note := &accessNote{}
			next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), contextKeyAccess, note)))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", rw.statusCode),
				zap.Int("bytes", rw.written),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", RequestIDFromContext(r.Context())),
			}
			// 鉴权在内层路由组执行，管理员 ID 通过 accessNote 回传
			if note.admin != "" {
				fields = append(fields, zap.String("admin_id", note.admin))
			}
			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				logger.Error("http_access", fields...)
			case rw.statusCode >= http.StatusBadRequest:
				logger.Warn("http_access", fields...)
			default:
				logger.Info("http_access", fields...)
			}
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

type accessNote struct {
	admin string
}

// noteAdmin 把鉴权得到的管理员 ID 记到外层的访问日志上
func noteAdmin(ctx context.Context, s *session.Session) {
	if n, ok := ctx.Value(contextKeyAccess).(*accessNote); ok && s != nil {
		n.admin = s.User.ID
	}
}
