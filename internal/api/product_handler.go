package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/middleware"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/resp"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/service"
)

// ProductHandler 商品与变体管理处理器。列表的每一行是一个变体
type ProductHandler struct {
	base
}

// NewProductHandler 创建商品处理器
func NewProductHandler(be Backend, list ListOptions, logger *zap.Logger, opts ...service.Option) *ProductHandler {
	return &ProductHandler{base: newBase(be, list, logger, opts)}
}

func (h *ProductHandler) screen() *service.ProductScreen {
	return service.NewProductScreen(h.be.Products, h.be.Variants, h.be.Categories, h.be.Subcategories, h.opts...)
}

func variantKey(r domain.VariantRow) string { return r.ID }

// productRows 某个商品的全部变体行
func productRows(s *service.ProductScreen, productID string) []domain.VariantRow {
	var out []domain.VariantRow
	for _, r := range s.Rows() {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

// List 变体行列表
// GET /admin/products?search=&status=&category=&subcategory=&priceRange=&stockLevel=&sortBy=&page=&pageSize=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList[domain.VariantRow](h.base, w, r, h.screen())
}

// Get 商品的全部变体行，id 可以是商品 ID 或变体 ID
// GET /admin/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s := h.screen()
	if err := s.Load(r.Context()); err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	productID := id
	if row, ok := s.Get(id); ok {
		productID = row.ProductID
	}
	rows := productRows(s, productID)
	if len(rows) == 0 {
		h.writeError(w, r, service.ErrRowNotLoaded, nil)
		return
	}
	resp.OK(w, rows, middleware.RequestIDFromContext(r.Context()), "")
}

func (h *ProductHandler) readInput(w http.ResponseWriter, r *http.Request) (domain.ProductInput, bool) {
	in, err := readProductInput(r)
	if err != nil {
		reqID := middleware.RequestIDFromContext(r.Context())
		h.logger.Warn("invalid product form", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
		return in, false
	}
	return in, h.validate(w, r, in)
}

// Create 新建商品（multipart，图片字段 images）
// POST /admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	s := h.screen()
	var before []domain.VariantRow
	h.serveMutation(w, r, mutation{
		load: func(ctx context.Context) error {
			if err := s.Load(ctx); err != nil {
				return err
			}
			before = s.Rows()
			return nil
		},
		run:    func(ctx context.Context, _ confirm.Confirmer) error { return s.Create(ctx, in) },
		result: func() any { return addedRows(before, s.Rows(), variantKey) },
		status: http.StatusCreated,
	})
}

// Update 编辑商品（multipart，新图片字段 files），id 可以是商品 ID 或变体 ID
// PUT /admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	s := h.screen()
	var productID string
	h.serveMutation(w, r, mutation{
		load: func(ctx context.Context) error {
			if err := s.Load(ctx); err != nil {
				return err
			}
			productID = id
			if row, ok := s.Get(id); ok {
				productID = row.ProductID
			}
			return nil
		},
		run:    func(ctx context.Context, _ confirm.Confirmer) error { return s.Update(ctx, id, in) },
		result: func() any { return productRows(s, productID) },
	})
}

// Delete 删除商品及其全部变体，需要 confirm=true
// DELETE /admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s := h.screen()
	h.serveMutation(w, r, mutation{
		load: s.Load,
		run:  func(ctx context.Context, cf confirm.Confirmer) error { return s.Delete(ctx, id, cf) },
	})
}

// UpdateVariant 编辑单个变体（multipart，新图片字段 images）
// PATCH /admin/variants/{id}
func (h *ProductHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, err := readVariantUpdate(r)
	if err != nil {
		reqID := middleware.RequestIDFromContext(r.Context())
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
		return
	}
	if !h.validate(w, r, in.Input) {
		return
	}
	s := h.screen()
	h.serveMutation(w, r, mutation{
		load:   s.Load,
		run:    func(ctx context.Context, _ confirm.Confirmer) error { return s.UpdateVariant(ctx, id, in) },
		result: func() any { row, _ := s.Get(id); return row },
	})
}

// ToggleVariant 启用/停用变体，需要 confirm=true
// PATCH /admin/variants/{id}/toggle
func (h *ProductHandler) ToggleVariant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s := h.screen()
	h.serveMutation(w, r, mutation{
		load:   s.Load,
		run:    func(ctx context.Context, cf confirm.Confirmer) error { return s.ToggleStatus(ctx, id, cf) },
		result: func() any { row, _ := s.Get(id); return row },
	})
}
