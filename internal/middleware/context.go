// Package middleware 提供管理网关的 HTTP 中间件：请求 ID、恢复、超时、CORS、访问日志与鉴权。
package middleware

import (
	"context"
)

// contextKey 用于在上下文中存取特定键，避免与外部键冲突。
type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyAccess    contextKey = "access_note"
)

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, id)
}

// RequestIDFromContext 从上下文中读取请求 ID（可能为空）。
// 网关转发到后端时同一个 ID 会出现在访问日志与错误响应里。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
