// Package router 组装管理网关的路由与中间件链
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/api"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/config"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/limiter"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/middleware"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/resp"
)

// Dependencies 包含路由设置所需的所有依赖
type Dependencies struct {
	CategoryHandler    *api.CategoryHandler
	SubcategoryHandler *api.SubcategoryHandler
	ProductHandler     *api.ProductHandler
	OrderHandler       *api.OrderHandler

	// Verify 校验 Bearer 令牌并返回会话
	Verify middleware.Verifier
	// Limiter 为 nil 时不做入站限流
	Limiter limiter.Limiter
}

// Router 路由器接口
type Router interface {
	Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler
}

// GinRouter Gin路由器实现
type GinRouter struct {
	engine *gin.Engine
	deps   *Dependencies
	logger *zap.Logger
	cfg    *config.Config
}

// New 创建新的路由器实例
func New() Router {
	return &GinRouter{}
}

// Setup 设置路由，并在 gin 引擎外包一层标准库中间件链
func (r *GinRouter) Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r.engine = gin.New()
	r.deps = deps
	r.logger = lg
	r.cfg = cfg

	r.engine.Use(gin.Recovery(), middleware.PathValues())
	r.setupRoutes()

	return r.chain(r.engine)
}

// chain 请求进入时依次经过 request ID → access log → CORS → timeout → recovery。
// request ID 在最外层，访问日志才能带上它
func (r *GinRouter) chain(h http.Handler) http.Handler {
	h = middleware.Recovery(r.logger)(h)
	h = middleware.Timeout(r.cfg.App.RequestTimeout)(h)
	h = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.CORS.AllowedHeaders,
	})(h)
	h = middleware.AccessLog(r.logger)(h)
	return middleware.RequestID(h)
}

// setupRoutes 设置所有路由
func (r *GinRouter) setupRoutes() {
	r.engine.GET("/healthz", r.healthCheck)

	admin := r.engine.Group("/admin")
	admin.Use(middleware.Gin(middleware.Auth(r.deps.Verify, r.logger)))
	if r.cfg.Auth.RequireAdmin {
		admin.Use(middleware.Gin(middleware.RequireAdmin(r.logger)))
	}
	if r.deps.Limiter != nil {
		admin.Use(limiter.RateLimitMiddleware(limiter.MiddlewareConfig{
			Limiter:  r.deps.Limiter,
			FailOpen: r.cfg.Limit.FailOpen,
			Logger:   r.logger,
		}))
	}

	admin.GET("/me", r.wrapHandler(api.Me))

	// 分类管理
	categories := admin.Group("/categories")
	{
		h := r.deps.CategoryHandler
		categories.GET("", r.wrapHandler(h.List))
		categories.POST("", r.wrapHandler(h.Create))
		categories.GET("/:id", r.wrapHandler(h.Get))
		categories.PUT("/:id", r.wrapHandler(h.Update))
		categories.PATCH("/:id/toggle-status", r.wrapHandler(h.ToggleStatus))
		categories.DELETE("/:id", r.wrapHandler(h.Delete))
	}

	// 子分类管理
	subcategories := admin.Group("/subcategories")
	{
		h := r.deps.SubcategoryHandler
		subcategories.GET("", r.wrapHandler(h.List))
		subcategories.POST("", r.wrapHandler(h.Create))
		subcategories.GET("/:id", r.wrapHandler(h.Get))
		subcategories.PUT("/:id", r.wrapHandler(h.Update))
		subcategories.PATCH("/:id/toggle-status", r.wrapHandler(h.ToggleStatus))
		subcategories.DELETE("/:id", r.wrapHandler(h.Delete))
	}

	// 商品与变体管理
	products := admin.Group("/products")
	{
		h := r.deps.ProductHandler
		products.GET("", r.wrapHandler(h.List))
		products.POST("", r.wrapHandler(h.Create))
		products.GET("/:id", r.wrapHandler(h.Get))
		products.PUT("/:id", r.wrapHandler(h.Update))
		products.DELETE("/:id", r.wrapHandler(h.Delete))
	}
	variants := admin.Group("/variants")
	{
		h := r.deps.ProductHandler
		variants.PATCH("/:id", r.wrapHandler(h.UpdateVariant))
		variants.PATCH("/:id/toggle", r.wrapHandler(h.ToggleVariant))
	}

	// 订单管理
	orders := admin.Group("/orders")
	{
		h := r.deps.OrderHandler
		orders.GET("", r.wrapHandler(h.List))
		orders.GET("/:id", r.wrapHandler(h.Get))
		orders.PATCH("/:id", r.wrapHandler(h.UpdateStatus))
		orders.POST("/:id/advance", r.wrapHandler(h.Advance))
		orders.POST("/:id/cancel", r.wrapHandler(h.Cancel))
	}

	r.engine.NoRoute(func(c *gin.Context) {
		resp.Error(c.Writer, http.StatusNotFound, resp.CodeNotFound,
			fmt.Sprintf("route %s %s not found", c.Request.Method, c.Request.URL.Path),
			middleware.RequestIDFromGin(c), "")
	})
}

// healthCheck 健康检查处理器
func (r *GinRouter) healthCheck(c *gin.Context) {
	data := map[string]any{
		"status":  "ok",
		"version": r.cfg.App.Version,
	}
	resp.OK(c.Writer, &data, middleware.RequestIDFromGin(c), "")
}

// wrapHandler 将标准的 http.HandlerFunc 包装为 gin.HandlerFunc
func (r *GinRouter) wrapHandler(handler func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return gin.WrapF(handler)
}
