package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/projection"
)

// OrderAPI 订单管理接口
type OrderAPI interface {
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, u domain.OrderStatusUpdate) (*domain.Order, error)
}

// OrderScreen 订单管理页面
type OrderScreen struct {
	*screen[domain.OrderRow]
	api OrderAPI
	now func() time.Time
}

// NewOrderScreen 创建订单页面
func NewOrderScreen(api OrderAPI, opts ...Option) *OrderScreen {
	o := applyOptions(opts)
	return &OrderScreen{
		screen: newScreen(func(r domain.OrderRow) string { return r.ID }, OrderSchema(o.now)),
		api:    api,
		now:    o.now,
	}
}

// Load 加载全部订单
func (s *OrderScreen) Load(ctx context.Context) error {
	return s.load(ctx, func(ctx context.Context) ([]domain.OrderRow, error) {
		raw, err := s.api.List(ctx)
		if err != nil {
			return nil, err
		}
		return projection.Orders(raw), nil
	})
}

// Transition 把订单流转到 next。先在本地校验状态机，只有取消需要确认；
// 流转到 delivered 时同时提交已支付状态与支付时间
func (s *OrderScreen) Transition(ctx context.Context, id string, next domain.OrderStatus, cf confirm.Confirmer) error {
	row, ok := s.rows.Get(id)
	if !ok {
		return ErrRowNotLoaded
	}
	if !domain.CanTransition(row.Status, next) {
		return &domain.TransitionError{From: row.Status, To: next}
	}
	if next == domain.OrderStatusCancelled {
		if err := ask(ctx, cf, cancelPrompt(row)); err != nil {
			return err
		}
	}

	update := domain.OrderTransition(next, s.now())
	return s.submit(func() error {
		if _, err := s.api.UpdateStatus(ctx, id, update); err != nil {
			return err
		}
		s.rows.Patch(id, func(r *domain.OrderRow) {
			r.Status = update.Status
			if update.PaymentStatus != "" {
				r.PaymentStatus = update.PaymentStatus
			}
			if update.PaidAt != nil {
				r.PaidAt = domain.Timestamp{Time: *update.PaidAt}
			}
		})
		return nil
	})
}

// Advance 流转到下一个正向状态
func (s *OrderScreen) Advance(ctx context.Context, id string, cf confirm.Confirmer) error {
	row, ok := s.rows.Get(id)
	if !ok {
		return ErrRowNotLoaded
	}
	next, ok := domain.NextOrderStatus(row.Status)
	if !ok {
		return &domain.TransitionError{From: row.Status, To: row.Status}
	}
	return s.Transition(ctx, id, next, cf)
}

// Cancel 取消订单
func (s *OrderScreen) Cancel(ctx context.Context, id string, cf confirm.Confirmer) error {
	return s.Transition(ctx, id, domain.OrderStatusCancelled, cf)
}

func cancelPrompt(r domain.OrderRow) confirm.Prompt {
	ref := r.OrderNumber
	if ref == "" {
		ref = r.ID
	}
	return confirm.Prompt{
		Title:   "Xác nhận hủy đơn hàng",
		Message: fmt.Sprintf("Bạn có chắc muốn hủy đơn hàng %s của %s? Đơn hàng đã hủy không thể khôi phục.", ref, r.CustomerName),
		Severe:  true,
	}
}
