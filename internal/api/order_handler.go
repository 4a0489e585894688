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

// OrderHandler 订单管理处理器
type OrderHandler struct {
	base
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(be Backend, list ListOptions, logger *zap.Logger, opts ...service.Option) *OrderHandler {
	return &OrderHandler{base: newBase(be, list, logger, opts)}
}

func (h *OrderHandler) screen() *service.OrderScreen {
	return service.NewOrderScreen(h.be.Orders, h.opts...)
}

// List 订单列表
// GET /admin/orders?search=&status=&paymentStatus=&dateRange=&sortBy=&page=&pageSize=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	serveList[domain.OrderRow](h.base, w, r, h.screen())
}

// Get 单个订单
// GET /admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	serveGet[domain.OrderRow](h.base, w, r, h.screen(), r.PathValue("id"))
}

type transitionRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// UpdateStatus 流转订单状态；取消需要 confirm=true
// PATCH /admin/orders/{id}  {"status": "confirmed"}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		reqID := middleware.RequestIDFromContext(r.Context())
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid order status", reqID, "")
		return
	}
	h.transition(w, r, func(ctx context.Context, s *service.OrderScreen, id string, cf confirm.Confirmer) error {
		return s.Transition(ctx, id, req.Status, cf)
	})
}

// Advance 流转到下一个状态
// POST /admin/orders/{id}/advance
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, s *service.OrderScreen, id string, cf confirm.Confirmer) error {
		return s.Advance(ctx, id, cf)
	})
}

// Cancel 取消订单，需要 confirm=true
// POST /admin/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, s *service.OrderScreen, id string, cf confirm.Confirmer) error {
		return s.Cancel(ctx, id, cf)
	})
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, s *service.OrderScreen, id string, cf confirm.Confirmer) error) {
	id := r.PathValue("id")
	s := h.screen()
	h.serveMutation(w, r, mutation{
		load:   s.Load,
		run:    func(ctx context.Context, cf confirm.Confirmer) error { return op(ctx, s, id, cf) },
		result: func() any { row, _ := s.Get(id); return row },
	})
}
