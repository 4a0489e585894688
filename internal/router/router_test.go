package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/api"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/config"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/limiter"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

func verify(token string) (*session.Session, error) {
	switch token {
	case "admin-token":
		return &session.Session{Token: token, User: domain.AdminUser{ID: "u1", Role: domain.UserRoleAdmin}}, nil
	case "user-token":
		return &session.Session{Token: token, User: domain.AdminUser{ID: "u2", Role: domain.UserRoleUser}}, nil
	}
	return nil, errors.New("bad token")
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.Version = "9.9.9"
	cfg.App.RequestTimeout = 5 * time.Second
	cfg.Auth.RequireAdmin = true
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.Limit.FailOpen = true
	return cfg
}

func newTestHandler(t *testing.T, lim limiter.Limiter) (http.Handler, *[]string) {
	t.Helper()
	var auth []string
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/categories":
			_, _ = io.WriteString(w, `[{"_id":"c1","name":"Điện thoại","isActive":true}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"not found"}`)
		}
	}))
	t.Cleanup(up.Close)

	client := backend.New(up.URL, 5*time.Second, backend.WithTokenSource(session.TokenFromContext))
	be := api.NewBackend(client)
	list := api.ListOptions{DefaultPageSize: 10, MaxPageSize: 50}
	lg := zap.NewNop()
	deps := &Dependencies{
		CategoryHandler:    api.NewCategoryHandler(be, list, lg),
		SubcategoryHandler: api.NewSubcategoryHandler(be, list, lg),
		ProductHandler:     api.NewProductHandler(be, list, lg),
		OrderHandler:       api.NewOrderHandler(be, list, lg),
		Verify:             verify,
		Limiter:            lim,
	}
	return New().Setup(testConfig(), deps, lg), &auth
}

func do(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	rr := do(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "9.9.9", body.Data["version"])
}

func TestAdminRoutes_Auth(t *testing.T) {
	h, auth := newTestHandler(t, nil)

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/admin/categories", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/admin/categories", "junk").Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/admin/categories", "user-token").Code)
	assert.Empty(t, *auth, "rejected requests never reach the backend")

	rr := do(h, http.MethodGet, "/admin/categories/c1", "admin-token")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"name":"Điện thoại"`)
	assert.Equal(t, []string{"Bearer admin-token"}, *auth)

	rr = do(h, http.MethodGet, "/admin/me", "admin-token")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"_id":"u1"`)
}

func TestAdminRoutes_ConfirmAndNotFound(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rr := do(h, http.MethodDelete, "/admin/categories/c1", "admin-token")
	assert.Equal(t, http.StatusPreconditionRequired, rr.Code)

	rr = do(h, http.MethodGet, "/admin/nothing-here", "admin-token")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/admin/categories", nil)
	req.Header.Set("Origin", "http://admin.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitPerAdmin(t *testing.T) {
	lim, err := limiter.New(limiter.StoreMemory, nil, &limiter.Config{Rate: 1, Window: time.Hour, Burst: 2})
	require.NoError(t, err)
	h, _ := newTestHandler(t, lim)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/admin/me", "admin-token").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/admin/me", "admin-token").Code)
	rr := do(h, http.MethodGet, "/admin/me", "admin-token")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}
