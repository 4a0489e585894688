package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Gin 把 net/http 中间件适配为 gin 中间件，用于挂在路由组上。
// 中间件没有调用下一级处理器时（例如鉴权失败已写出响应），终止 gin 的处理链。
func Gin(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

// PathValues 把 gin 的路由参数写入 http.Request，处理器统一用 r.PathValue 读取
func PathValues() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range c.Params {
			c.Request.SetPathValue(p.Key, p.Value)
		}
		c.Next()
	}
}

// RequestIDFromGin 读取 gin 请求上下文中的请求 ID
func RequestIDFromGin(c *gin.Context) string {
	return RequestIDFromContext(c.Request.Context())
}
