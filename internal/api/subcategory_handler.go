package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/service"
)

// SubcategoryHandler 子分类管理处理器
type SubcategoryHandler struct {
	base
}

// NewSubcategoryHandler 创建子分类处理器
func NewSubcategoryHandler(be Backend, list ListOptions, logger *zap.Logger, opts ...service.Option) *SubcategoryHandler {
	return &SubcategoryHandler{base: newBase(be, list, logger, opts)}
}

// screen 创建页面，categoryId 查询参数把页面限定到单个分类
func (h *SubcategoryHandler) screen(r *http.Request) *subcategoryScope {
	s := service.NewSubcategoryScreen(h.be.Subcategories, h.be.Categories, h.opts...)
	return &subcategoryScope{SubcategoryScreen: s, categoryID: r.URL.Query().Get("categoryId")}
}

// subcategoryScope 按请求的分类范围加载
type subcategoryScope struct {
	*service.SubcategoryScreen
	categoryID string
}

func (s *subcategoryScope) Load(ctx context.Context) error {
	if s.categoryID != "" {
		return s.SetCategory(ctx, s.categoryID)
	}
	return s.SubcategoryScreen.Load(ctx)
}

func subcategoryKey(r domain.SubcategoryRow) string { return r.ID }

// List 子分类列表
// GET /admin/subcategories?categoryId=&search=&status=&category=&sortBy=&page=&pageSize=
func (h *SubcategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList[domain.SubcategoryRow](h.base, w, r, h.screen(r))
}

// Get 单个子分类
// GET /admin/subcategories/{id}
func (h *SubcategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet[domain.SubcategoryRow](h.base, w, r, h.screen(r), r.PathValue("id"))
}

// Create 新建子分类
// POST /admin/subcategories
func (h *SubcategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.SubcategoryInput
	if !h.decodeJSON(w, r, &in) || !h.validate(w, r, in) {
		return
	}
	s := h.screen(r)
	var before []domain.SubcategoryRow
	h.serveMutation(w, r, mutation{
		load: func(ctx context.Context) error {
			if err := s.Load(ctx); err != nil {
				return err
			}
			before = s.Rows()
			return nil
		},
		run:    func(ctx context.Context, _ confirm.Confirmer) error { return s.Create(ctx, in) },
		result: func() any { return addedRows(before, s.Rows(), subcategoryKey) },
		status: http.StatusCreated,
	})
}

// Update 编辑子分类
// PUT /admin/subcategories/{id}
func (h *SubcategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in domain.SubcategoryInput
	if !h.decodeJSON(w, r, &in) || !h.validate(w, r, in) {
		return
	}
	s := h.screen(r)
	h.serveMutation(w, r, mutation{
		load:   s.Load,
		run:    func(ctx context.Context, _ confirm.Confirmer) error { return s.Update(ctx, id, in) },
		result: func() any { row, _ := s.Get(id); return row },
	})
}

// ToggleStatus 启用/停用子分类，需要 confirm=true
// PATCH /admin/subcategories/{id}/toggle-status
func (h *SubcategoryHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s := h.screen(r)
	h.serveMutation(w, r, mutation{
		load:   s.Load,
		run:    func(ctx context.Context, cf confirm.Confirmer) error { return s.ToggleStatus(ctx, id, cf) },
		result: func() any { row, _ := s.Get(id); return row },
	})
}

// Delete 删除子分类，需要 confirm=true；仍有商品时后端拒绝，返回 409
// DELETE /admin/subcategories/{id}
func (h *SubcategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s := h.screen(r)
	h.serveMutation(w, r, mutation{
		load: s.Load,
		run:  func(ctx context.Context, cf confirm.Confirmer) error { return s.Delete(ctx, id, cf) },
	})
}
