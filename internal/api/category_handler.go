package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/service"
)

// CategoryHandler 分类管理处理器
type CategoryHandler struct {
	base
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(be Backend, list ListOptions, logger *zap.Logger, opts ...service.Option) *CategoryHandler {
	return &CategoryHandler{base: newBase(be, list, logger, opts)}
}

func (h *CategoryHandler) screen() *service.CategoryScreen {
	return service.NewCategoryScreen(h.be.Categories, h.opts...)
}

func categoryKey(r domain.CategoryRow) string { return r.ID }

// List 分类列表
// GET /admin/categories?search=&status=&dateRange=&sortBy=&page=&pageSize=
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList[domain.CategoryRow](h.base, w, r, h.screen())
}

// Get 单个分类
// GET /admin/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet[domain.CategoryRow](h.base, w, r, h.screen(), r.PathValue("id"))
}

// Create 新建分类
// POST /admin/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if !h.decodeJSON(w, r, &in) || !h.validate(w, r, in) {
		return
	}
	s := h.screen()
	var before []domain.CategoryRow
	h.serveMutation(w, r, mutation{
		load: func(ctx context.Context) error {
			if err := s.Load(ctx); err != nil {
				return err
			}
			before = s.Rows()
			return nil
		},
		run: func(ctx context.Context, _ confirm.Confirmer) error {
			return s.Create(ctx, in)
		},
		result: func() any { return addedRows(before, s.Rows(), categoryKey) },
		status: http.StatusCreated,
	})
}

// Update 编辑分类
// PUT /admin/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in domain.CategoryInput
	if !h.decodeJSON(w, r, &in) || !h.validate(w, r, in) {
		return
	}
	s := h.screen()
	h.serveMutation(w, r, mutation{
		load:   s.Load,
		run:    func(ctx context.Context, _ confirm.Confirmer) error { return s.Update(ctx, id, in) },
		result: func() any { row, _ := s.Get(id); return row },
	})
}

// ToggleStatus 启用/停用分类，需要 confirm=true
// PATCH /admin/categories/{id}/toggle-status
func (h *CategoryHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s := h.screen()
	h.serveMutation(w, r, mutation{
		load:   s.Load,
		run:    func(ctx context.Context, cf confirm.Confirmer) error { return s.ToggleStatus(ctx, id, cf) },
		result: func() any { row, _ := s.Get(id); return row },
	})
}

// Delete 删除分类，需要 confirm=true；仍有子分类时后端拒绝，返回 409
// DELETE /admin/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s := h.screen()
	h.serveMutation(w, r, mutation{
		load: s.Load,
		run:  func(ctx context.Context, cf confirm.Confirmer) error { return s.Delete(ctx, id, cf) },
	})
}
