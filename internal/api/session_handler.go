package api

import (
	"net/http"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/middleware"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/resp"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

// Me 返回当前请求的管理员会话
// GET /admin/me
func Me(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	s := session.FromContext(r.Context())
	if s == nil {
		resp.Error(w, http.StatusUnauthorized, resp.CodeInvalidParam, "authentication required", reqID, "")
		return
	}
	resp.OK(w, s, reqID, "")
}
