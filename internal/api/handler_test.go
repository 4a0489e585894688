package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/service"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/session"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// upstream 模拟电商后端，记录收到的变更请求
type upstream struct {
	mu       sync.Mutex
	calls    []string
	mux      *http.ServeMux
	auth     []string
	products string              // GET /api/products 的响应体
	forms    map[string][]string // 最近一次变体编辑提交的表单字段
}

func (u *upstream) record(r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.auth = append(u.auth, r.Header.Get("Authorization"))
	if r.Method != http.MethodGet {
		u.calls = append(u.calls, r.Method+" "+r.URL.Path)
	}
}

func (u *upstream) mutations() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.calls...)
}

func (u *upstream) setProducts(body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.products = body
}

func (u *upstream) variantForm() map[string][]string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.forms
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.record(r)
	u.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

const (
	categoriesJSON = `{"success":true,"data":[
		{"_id":"c1","name":"Điện thoại","isActive":true,"createdAt":"2026-03-01T00:00:00Z"},
		{"_id":"c2","name":"Laptop","isActive":"false","createdAt":"2026-01-01T00:00:00Z"},
		{"_id":"c3","name":"Phụ kiện","isActive":"true","createdAt":"2026-03-09T00:00:00Z"}]}`
	subcategoriesJSON = `[{"_id":"s1","name":"iPhone","categoryId":"c1","isActive":true},
		{"_id":"s2","name":"MacBook","categoryId":"c2","isActive":true}]`
	productsJSON = `{"data":{"products":[
		{"_id":"p1","name":"iPhone 15","categoryId":"c1","subcategoryId":"s1","variants":[
			{"_id":"v1","price":20000000,"stock":5,"storage":"128GB","color":"Đen","isActive":true},
			{"_id":"v2","price":23000000,"stock":0,"storage":"256GB","color":"Trắng","isActive":true}]},
		{"_id":"p2","name":"MacBook Air","categoryId":"c2","subcategoryId":"s2","variants":[
			{"_id":"v3","price":28000000,"stock":12,"storage":"512GB","color":"Bạc","isActive":"false"}]}]}}`
	ordersJSON = `{"success":true,"data":{"orders":[
		{"_id":"o1","orderNumber":"DH001","userId":{"_id":"u9","name":"Lan","email":"lan@x.vn"},"status":"pending","paymentStatus":"pending","items":[{"quantity":2}],"totalAmount":100},
		{"_id":"o2","orderNumber":"DH002","userId":"u8","shippingAddress":{"fullName":"Minh"},"status":"delivered","paymentStatus":"paid","items":[{"quantity":1}],"totalAmount":50},
		{"_id":"o3","orderNumber":"DH003","userId":"u7","status":"delivered","paymentStatus":"pending","paymentMethod":"cod","items":[{"quantity":1}],"totalAmount":75}]}}`
)

func newUpstream() *upstream {
	u := &upstream{mux: http.NewServeMux(), products: productsJSON}
	u.mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, categoriesJSON)
	})
	u.mux.HandleFunc("POST /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"_id":"c9","name":"Máy tính bảng","isActive":true}}`)
	})
	u.mux.HandleFunc("PATCH /api/categories/{id}/toggle-status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"_id":"`+r.PathValue("id")+`","isActive":false}}`)
	})
	u.mux.HandleFunc("DELETE /api/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "c1" {
			writeJSON(w, http.StatusBadRequest, `{"success":false,"message":"Không thể xóa danh mục có danh mục con"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	u.mux.HandleFunc("GET /api/subcategories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, subcategoriesJSON)
	})
	u.mux.HandleFunc("GET /api/subcategories/category/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"_id":"s2","name":"MacBook","categoryId":"c2","isActive":true}]`)
	})
	u.mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		body := u.products
		u.mu.Unlock()
		writeJSON(w, http.StatusOK, body)
	})
	u.mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil || len(r.MultipartForm.File["images"]) != 1 {
			writeJSON(w, http.StatusBadRequest, `{"message":"ảnh là bắt buộc"}`)
			return
		}
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"_id":"p3","name":"`+r.FormValue("name")+`","categoryId":"c1",
			"variants":[{"_id":"v9","price":1000,"stock":1,"isActive":true}]}}`)
	})
	u.mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"message":"Đã xóa"}`)
	})
	u.mux.HandleFunc("PATCH /api/products/variants/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, `{"message":"form không hợp lệ"}`)
			return
		}
		u.mu.Lock()
		u.forms = r.MultipartForm.Value
		u.mu.Unlock()
		writeJSON(w, http.StatusOK, `{"success":true,"message":"Đã cập nhật"}`)
	})
	u.mux.HandleFunc("PATCH /api/products/variants/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"isActive":true}}`)
	})
	u.mux.HandleFunc("GET /api/orders/admin/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ordersJSON)
	})
	u.mux.HandleFunc("PATCH /api/orders/admin/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	return u
}

type gatewayEnv struct {
	up     *upstream
	cats   *CategoryHandler
	subs   *SubcategoryHandler
	prods  *ProductHandler
	orders *OrderHandler
	srv    *httptest.Server
}

func newGatewayEnv(t *testing.T) *gatewayEnv {
	t.Helper()
	up := newUpstream()
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	client := backend.New(srv.URL, 5*time.Second, backend.WithTokenSource(session.TokenFromContext))
	be := NewBackend(client)
	list := ListOptions{DefaultPageSize: 10, MaxPageSize: 20}
	clock := service.WithClock(func() time.Time { return fixedNow })
	lg := zap.NewNop()
	return &gatewayEnv{
		up:     up,
		cats:   NewCategoryHandler(be, list, lg, clock),
		subs:   NewSubcategoryHandler(be, list, lg, clock),
		prods:  NewProductHandler(be, list, lg, clock),
		orders: NewOrderHandler(be, list, lg, clock),
		srv:    srv,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pageBody[T any] struct {
	Items        []T  `json:"items"`
	Page         int  `json:"page"`
	PageSize     int  `json:"pageSize"`
	TotalItems   int  `json:"totalItems"`
	TotalPages   int  `json:"totalPages"`
	ShowControls bool `json:"showControls"`
}

func call(t *testing.T, h http.HandlerFunc, method, target string, body io.Reader, pathValues map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s := &session.Session{Token: "admin-jwt"}
	req = req.WithContext(session.WithSession(req.Context(), s))
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

func TestCategoryList_FilterAndPaginate(t *testing.T) {
	e := newGatewayEnv(t)

	rr, env := call(t, e.cats.List, http.MethodGet, "/admin/categories?status=active&sortBy=name&pageSize=1&page=2", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page pageBody[map[string]any]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.True(t, page.ShowControls)
	require.Len(t, page.Items, 1)

	// 令牌从会话转发给后端
	assert.Contains(t, e.up.auth, "Bearer admin-jwt")
}

func TestList_PageSizeClampedAndValidated(t *testing.T) {
	e := newGatewayEnv(t)

	rr, env := call(t, e.cats.List, http.MethodGet, "/admin/categories?pageSize=500", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page pageBody[map[string]any]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 20, page.PageSize)

	rr, _ = call(t, e.cats.List, http.MethodGet, "/admin/categories?page=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCategoryToggle_RequiresConfirmation(t *testing.T) {
	e := newGatewayEnv(t)

	rr, env := call(t, e.cats.ToggleStatus, http.MethodPatch, "/admin/categories/c1/toggle-status", nil, map[string]string{"id": "c1"})
	require.Equal(t, http.StatusPreconditionRequired, rr.Code)
	var prompt struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &prompt))
	assert.Contains(t, prompt.Message, "Điện thoại")
	assert.Contains(t, prompt.Message, "tắt")
	assert.Empty(t, e.up.mutations(), "nothing is sent before confirmation")

	rr, env = call(t, e.cats.ToggleStatus, http.MethodPatch, "/admin/categories/c1/toggle-status?confirm=true", nil, map[string]string{"id": "c1"})
	require.Equal(t, http.StatusOK, rr.Code)
	var row struct {
		ID     string `json:"id"`
		Active bool   `json:"active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &row))
	assert.Equal(t, "c1", row.ID)
	assert.False(t, row.Active)
	assert.Equal(t, []string{"PATCH /api/categories/c1/toggle-status"}, e.up.mutations())
}

func TestCategoryDelete_DomainConstraint(t *testing.T) {
	e := newGatewayEnv(t)

	rr, env := call(t, e.cats.Delete, http.MethodDelete, "/admin/categories/c1?confirm=true", nil, map[string]string{"id": "c1"})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Không thể xóa danh mục có danh mục con", env.Message)
	var data struct {
		Kind backend.Kind `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, backend.KindConflictChildren, data.Kind)

	rr, _ = call(t, e.cats.Delete, http.MethodDelete, "/admin/categories/c2?confirm=true", nil, map[string]string{"id": "c2"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCategoryMutation_RowNotFound(t *testing.T) {
	e := newGatewayEnv(t)
	rr, _ := call(t, e.cats.Delete, http.MethodDelete, "/admin/categories/zz?confirm=true", nil, map[string]string{"id": "zz"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, e.up.mutations())
}

func TestCategoryCreate(t *testing.T) {
	e := newGatewayEnv(t)

	t.Run("validation error sends nothing", func(t *testing.T) {
		rr, env := call(t, e.cats.Create, http.MethodPost, "/admin/categories", strings.NewReader(`{"name":" a "}`), nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, string(env.Data), "fields")
		assert.Empty(t, e.up.mutations())
	})

	t.Run("created row returned", func(t *testing.T) {
		rr, env := call(t, e.cats.Create, http.MethodPost, "/admin/categories", strings.NewReader(`{"name":"Máy tính bảng"}`), nil)
		require.Equal(t, http.StatusCreated, rr.Code)
		var rows []struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "c9", rows[0].ID)
	})
}

func TestSubcategoryList_ScopedToCategory(t *testing.T) {
	e := newGatewayEnv(t)
	rr, env := call(t, e.subs.List, http.MethodGet, "/admin/subcategories?categoryId=c2", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page pageBody[struct {
		ID           string `json:"id"`
		CategoryName string `json:"categoryName"`
	}]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Laptop", page.Items[0].CategoryName)
}

func TestProductList_VariantRows(t *testing.T) {
	e := newGatewayEnv(t)

	rr, env := call(t, e.prods.List, http.MethodGet, "/admin/products?stockLevel=out-of-stock", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page pageBody[struct {
		ID              string `json:"id"`
		ProductID       string `json:"productId"`
		SubcategoryName string `json:"subcategoryName"`
	}]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "v2", page.Items[0].ID)
	assert.Equal(t, "p1", page.Items[0].ProductID)
	assert.Equal(t, "iPhone", page.Items[0].SubcategoryName)

	rr, env = call(t, e.prods.Get, http.MethodGet, "/admin/products/p1", nil, map[string]string{"id": "p1"})
	require.Equal(t, http.StatusOK, rr.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 2)
}

func TestProductCreate_Multipart(t *testing.T) {
	e := newGatewayEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Galaxy S25")
	_ = mw.WriteField("categoryId", "c1")
	_ = mw.WriteField("variants", `[{"price":1000,"stock":1,"isActive":true}]`)
	fw, _ := mw.CreateFormFile("images", "front.jpg")
	_, _ = fw.Write([]byte("jpeg-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	e.prods.Create(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"id":"v9"`)
	assert.Equal(t, []string{"POST /api/products"}, e.up.mutations())
}

func TestProductDelete_ByVariantID(t *testing.T) {
	e := newGatewayEnv(t)
	rr, _ := call(t, e.prods.Delete, http.MethodDelete, "/admin/products/v2?confirm=true", nil, map[string]string{"id": "v2"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"DELETE /api/products/p1"}, e.up.mutations())
}

func TestVariantToggle(t *testing.T) {
	e := newGatewayEnv(t)
	rr, env := call(t, e.prods.ToggleVariant, http.MethodPatch, "/admin/variants/v3/toggle?confirm=true", nil, map[string]string{"id": "v3"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"active":true`)
}

func TestVariantUpdate_KeepsActiveWhenOmitted(t *testing.T) {
	e := newGatewayEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("price", "150")
	_ = mw.WriteField("stock", "7")
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/admin/variants/v1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetPathValue("id", "v1")
	rr := httptest.NewRecorder()
	e.prods.UpdateVariant(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	var row struct {
		Price  float64 `json:"price"`
		Stock  int     `json:"stock"`
		Active bool    `json:"active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &row))
	assert.Equal(t, 150.0, row.Price)
	assert.Equal(t, 7, row.Stock)
	assert.True(t, row.Active)

	form := e.up.variantForm()
	_, sent := form["isActive"]
	assert.False(t, sent, "isActive must not be sent upstream when omitted")
	assert.Equal(t, []string{"150"}, form["price"])
}

func TestProductList_NonFiniteNumbers(t *testing.T) {
	e := newGatewayEnv(t)
	e.up.setProducts(`[{"_id":"p1","name":"iPhone 15","categoryId":"c1","variants":[
		{"_id":"v1","price":"NaN","stock":"Infinity","isActive":true}]}]`)

	rr, env := call(t, e.prods.List, http.MethodGet, "/admin/products", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page pageBody[struct {
		ID    string  `json:"id"`
		Price float64 `json:"price"`
		Stock int     `json:"stock"`
	}]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Zero(t, page.Items[0].Price)
	assert.Zero(t, page.Items[0].Stock)
}

func TestOrderList_DeliveredShownAsPaid(t *testing.T) {
	e := newGatewayEnv(t)

	rr, env := call(t, e.orders.List, http.MethodGet, "/admin/orders?paymentStatus=paid", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	type orderItem struct {
		ID                  string  `json:"id"`
		Status              string  `json:"status"`
		PaymentStatus       string  `json:"paymentStatus"`
		StoredPaymentStatus string  `json:"storedPaymentStatus"`
		PaidAt              *string `json:"paidAt"`
	}
	var page pageBody[orderItem]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 2)
	for _, it := range page.Items {
		assert.Equal(t, "paid", it.PaymentStatus, it.ID)
	}

	rr, env = call(t, e.orders.Get, http.MethodGet, "/admin/orders/o3", nil, map[string]string{"id": "o3"})
	require.Equal(t, http.StatusOK, rr.Code)
	var o3 orderItem
	require.NoError(t, json.Unmarshal(env.Data, &o3))
	assert.Equal(t, "delivered", o3.Status)
	assert.Equal(t, "paid", o3.PaymentStatus)
	assert.Equal(t, "pending", o3.StoredPaymentStatus)
	assert.Nil(t, o3.PaidAt, "missing paidAt is null, not the zero time")
	assert.NotContains(t, string(env.Data), "0001-01-01")
}

func TestOrderTransitions(t *testing.T) {
	e := newGatewayEnv(t)

	t.Run("advance needs no confirmation", func(t *testing.T) {
		rr, env := call(t, e.orders.Advance, http.MethodPost, "/admin/orders/o1/advance", nil, map[string]string{"id": "o1"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, string(env.Data), `"status":"confirmed"`)
	})

	t.Run("cancel requires confirmation", func(t *testing.T) {
		rr, env := call(t, e.orders.Cancel, http.MethodPost, "/admin/orders/o1/cancel", nil, map[string]string{"id": "o1"})
		require.Equal(t, http.StatusPreconditionRequired, rr.Code)
		assert.Contains(t, string(env.Data), "DH001")
	})

	t.Run("terminal order rejected locally", func(t *testing.T) {
		before := len(e.up.mutations())
		rr, _ := call(t, e.orders.UpdateStatus, http.MethodPatch, "/admin/orders/o2",
			strings.NewReader(`{"status":"shipping"}`), map[string]string{"id": "o2"})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Len(t, e.up.mutations(), before)
	})

	t.Run("unknown status", func(t *testing.T) {
		rr, _ := call(t, e.orders.UpdateStatus, http.MethodPatch, "/admin/orders/o1",
			strings.NewReader(`{"status":"lost"}`), map[string]string{"id": "o1"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpstreamUnreachable(t *testing.T) {
	e := newGatewayEnv(t)
	e.srv.Close()

	rr, env := call(t, e.orders.List, http.MethodGet, "/admin/orders", nil, nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotEmpty(t, env.Message)
}

func TestTimeoutMapsTo504(t *testing.T) {
	e := newGatewayEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	e.orders.List(rr, req)
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
}
