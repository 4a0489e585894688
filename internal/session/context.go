package session

import "context"

type ctxKey struct{}

// WithSession 把会话放入 context
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext 取出会话，不存在时返回 nil
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// TokenFromContext 取出 context 中会话的令牌，网关请求使用它作为后端客户端的令牌来源
func TokenFromContext(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token
	}
	return ""
}
