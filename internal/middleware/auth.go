package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/resp"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

// Verifier 把 bearer 令牌解析为管理员会话
type Verifier func(token string) (*session.Session, error)

// Auth 鉴权中间件
// 从 Authorization 头读取 bearer 令牌，解析为会话后注入请求上下文；
// 后端客户端通过 session.TokenFromContext 取得同一个令牌转发给后端。
func Auth(verify Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := RequestIDFromContext(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing authorization header", zap.String("request_id", reqID))
				resp.Error(w, http.StatusUnauthorized, resp.CodeInvalidParam, "authorization header required", reqID, "")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				logger.Warn("invalid authorization header format", zap.String("request_id", reqID))
				resp.Error(w, http.StatusUnauthorized, resp.CodeInvalidParam, "invalid authorization header format", reqID, "")
				return
			}

			s, err := verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				logger.Warn("token validation failed",
					zap.String("request_id", reqID),
					zap.Error(err),
				)
				switch {
				case errors.Is(err, session.ErrNoSession):
					resp.Error(w, http.StatusUnauthorized, resp.CodeInvalidParam, "token required", reqID, "")
				case errors.Is(err, session.ErrSessionExpired):
					resp.Error(w, http.StatusUnauthorized, resp.CodeInvalidParam, "token expired", reqID, "")
				default:
					resp.Error(w, http.StatusUnauthorized, resp.CodeInvalidParam, "invalid token", reqID, "")
				}
				return
			}

			noteAdmin(r.Context(), s)
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireAdmin 要求会话用户为管理员，需挂在 Auth 之后
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := RequestIDFromContext(r.Context())
			s := session.FromContext(r.Context())

			if s == nil {
				logger.Error("session not found in context", zap.String("request_id", reqID))
				resp.Error(w, http.StatusUnauthorized, resp.CodeInvalidParam, "authentication required", reqID, "")
				return
			}

			if !s.User.IsAdmin() {
				logger.Warn("insufficient permissions",
					zap.String("request_id", reqID),
					zap.String("user_id", s.User.ID),
					zap.String("user_role", string(s.User.Role)),
				)
				resp.Error(w, http.StatusForbidden, resp.CodeInvalidParam, "insufficient permissions", reqID, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
