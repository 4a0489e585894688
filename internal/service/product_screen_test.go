package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/listview"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/projection"
)

func newLoadedProductScreen(t *testing.T) (*ProductScreen, *fakeProductAPI) {
	t.Helper()
	products := &fakeProductAPI{products: []domain.Product{
		{ID: "p1", Name: "iPhone 15", CategoryID: "c1", SubcategoryID: "s1", Variants: []domain.Variant{
			{ID: "v1", Price: 20_000_000, Stock: 5, Storage: "128GB", IsActive: true},
			{ID: "v2", Price: 25_000_000, Stock: 0, Storage: "256GB", IsActive: true},
		}},
		{ID: "p2", Name: "Galaxy A15", CategoryID: "c1", SubcategoryID: "missing", Variants: []domain.Variant{
			{ID: "v3", Price: 4_500_000, Stock: 40},
		}},
		{ID: "p3", Name: "No variants"},
	}}
	cats := &fakeCategoryAPI{categories: []domain.Category{{ID: "c1", Name: "Điện thoại"}}}
	subs := &fakeSubcategoryAPI{subcategories: []domain.Subcategory{{ID: "s1", Name: "iPhone", CategoryID: "c1"}}}

	s := NewProductScreen(products, fakeVariantAPI{products}, cats, subs, WithClock(func() time.Time { return fixedNow }))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s, products
}

func TestProductScreen_LoadFlattensVariants(t *testing.T) {
	s, _ := newLoadedProductScreen(t)

	rows := s.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[2].SubcategoryName != projection.NotAvailable {
		t.Errorf("missing subcategory should use placeholder, got %q", rows[2].SubcategoryName)
	}

	page := s.List(listview.Criteria{PriceRange: "high", StockLevel: "out-of-stock"}, 1, 10)
	if page.TotalItems != 1 || page.Items[0].ID != "v2" {
		t.Errorf("unexpected filter result: %+v", page.Items)
	}
}

func TestProductScreen_DeleteRemovesAllVariants(t *testing.T) {
	s, api := newLoadedProductScreen(t)

	if err := s.Delete(context.Background(), "v2", confirm.Always); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "p1" {
		t.Errorf("expected DELETE of product p1, got %v", api.deleted)
	}
	rows := s.Rows()
	if len(rows) != 1 || rows[0].ID != "v3" {
		t.Errorf("unexpected rows after delete: %+v", rows)
	}
}

func TestProductScreen_DeleteByProductID(t *testing.T) {
	s, api := newLoadedProductScreen(t)

	if err := s.Delete(context.Background(), "p2", confirm.Always); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if api.deleted[0] != "p2" || len(s.Rows()) != 2 {
		t.Errorf("deleted=%v rows=%d", api.deleted, len(s.Rows()))
	}
}

func TestProductScreen_ToggleVariant(t *testing.T) {
	s, api := newLoadedProductScreen(t)

	if err := s.ToggleStatus(context.Background(), "v1", confirm.Always); err != nil {
		t.Fatalf("ToggleStatus() error = %v", err)
	}
	if len(api.toggled) != 1 || api.toggled[0] != "v1" {
		t.Errorf("toggled = %v", api.toggled)
	}
	v1, _ := s.Get("v1")
	v2, _ := s.Get("v2")
	if v1.Active || !v2.Active {
		t.Errorf("only v1 should flip: v1=%v v2=%v", v1.Active, v2.Active)
	}
}

func TestProductScreen_UpdateReprojectsProduct(t *testing.T) {
	s, api := newLoadedProductScreen(t)
	api.updated = &domain.Product{ID: "p1", Name: "iPhone 15 Pro", CategoryID: "c1", SubcategoryID: "s1", Variants: []domain.Variant{
		{ID: "v1", Price: 28_000_000, Stock: 3, IsActive: true},
	}}

	in := domain.ProductInput{
		Name:       "iPhone 15 Pro",
		CategoryID: "c1",
		Variants:   []domain.VariantInput{{ID: "v1", Price: 28_000_000, Stock: 3}},
	}
	if err := s.Update(context.Background(), "p1", in); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ID != "v1" || rows[0].Name != "iPhone 15 Pro" || rows[0].Price != 28_000_000 {
		t.Errorf("product rows not re-projected: %+v", rows[0])
	}
	if rows[1].ID != "v3" {
		t.Errorf("other product rows must keep their place: %+v", rows[1])
	}
}

func TestProductScreen_UpdateVariantValidation(t *testing.T) {
	s, _ := newLoadedProductScreen(t)

	err := s.UpdateVariant(context.Background(), "v1", backend.VariantUpdate{Input: domain.VariantInput{Price: 0, Stock: -1}})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", err)
	}

	if err := s.UpdateVariant(context.Background(), "v1", backend.VariantUpdate{Input: domain.VariantInput{Price: 19_000_000, Stock: 9, Storage: "128GB"}}); err != nil {
		t.Fatalf("UpdateVariant() error = %v", err)
	}
	v1, _ := s.Get("v1")
	if v1.Price != 19_000_000 || v1.Stock != 9 {
		t.Errorf("variant not patched: %+v", v1)
	}
	if !v1.Active {
		t.Error("editing price and stock must not deactivate the variant")
	}

	off := false
	if err := s.UpdateVariant(context.Background(), "v1", backend.VariantUpdate{Input: domain.VariantInput{Price: 19_000_000, Stock: 9, IsActive: &off}}); err != nil {
		t.Fatalf("UpdateVariant() error = %v", err)
	}
	if v1, _ = s.Get("v1"); v1.Active {
		t.Error("explicit isActive=false must be applied")
	}
}

func TestSubcategoryScreen_SetCategory(t *testing.T) {
	subs := &fakeSubcategoryAPI{subcategories: []domain.Subcategory{
		{ID: "s1", Name: "iPhone", CategoryID: "c1", IsActive: true},
		{ID: "s2", Name: "MacBook", CategoryID: "c2", IsActive: true},
	}}
	cats := &fakeCategoryAPI{categories: []domain.Category{{ID: "c1", Name: "Phones"}}}
	s := NewSubcategoryScreen(subs, cats)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Rows()) != 2 {
		t.Fatalf("rows = %d, want 2", len(s.Rows()))
	}
	row, _ := s.Get("s2")
	if row.CategoryName != projection.UnknownName {
		t.Errorf("unknown category should use placeholder, got %q", row.CategoryName)
	}

	if err := s.SetCategory(context.Background(), "c1"); err != nil {
		t.Fatalf("SetCategory() error = %v", err)
	}
	if len(subs.byCategory) != 1 || subs.byCategory[0] != "c1" {
		t.Errorf("expected category-scoped fetch, got %v", subs.byCategory)
	}
	if rows := s.Rows(); len(rows) != 1 || rows[0].CategoryName != "Phones" {
		t.Errorf("unexpected rows %+v", rows)
	}

	if err := s.Create(context.Background(), domain.SubcategoryInput{Name: "AirPods", CategoryID: "c2"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(s.Rows()) != 1 {
		t.Error("row of another category must not be appended to a scoped screen")
	}
}

func TestOrderScreen_Transition(t *testing.T) {
	api := &fakeOrderAPI{orders: []domain.Order{
		{ID: "o1", Status: domain.OrderStatusShipping, PaymentStatus: domain.PaymentStatusPending},
		{ID: "o2", Status: domain.OrderStatusPending},
		{ID: "o3", Status: domain.OrderStatusDelivered},
	}}
	s := NewOrderScreen(api, WithClock(func() time.Time { return fixedNow }))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// 送达不需要确认，并同时标记已支付
	if err := s.Advance(context.Background(), "o1", confirm.Never); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	o1, _ := s.Get("o1")
	if o1.Status != domain.OrderStatusDelivered || o1.PaymentStatus != domain.PaymentStatusPaid || !o1.PaidAt.Equal(fixedNow) {
		t.Errorf("delivered order not patched: %+v", o1)
	}
	if u := api.updates[0]; u.PaidAt == nil || u.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("unexpected update body %+v", u)
	}

	if err := s.Cancel(context.Background(), "o2", confirm.Never); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("Cancel() without confirmation error = %v", err)
	}
	if err := s.Cancel(context.Background(), "o2", confirm.Always); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	o2, _ := s.Get("o2")
	if o2.Status != domain.OrderStatusCancelled {
		t.Errorf("o2 status = %s", o2.Status)
	}

	var terr *domain.TransitionError
	if err := s.Transition(context.Background(), "o3", domain.OrderStatusCancelled, confirm.Always); !errors.As(err, &terr) {
		t.Errorf("terminal order transition error = %v", err)
	}
	if len(api.updates) != 2 {
		t.Errorf("expected 2 PATCH calls, got %d", len(api.updates))
	}
}

func TestOrderScreen_PaymentFilterUsesEffectiveStatus(t *testing.T) {
	api := &fakeOrderAPI{orders: []domain.Order{
		{ID: "o1", Status: domain.OrderStatusDelivered, PaymentStatus: domain.PaymentStatusPending},
		{ID: "o2", Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending},
	}}
	s := NewOrderScreen(api)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	page := s.List(listview.Criteria{PaymentStatus: domain.PaymentStatusPaid}, 1, 10)
	if page.TotalItems != 1 || page.Items[0].ID != "o1" {
		t.Errorf("unexpected rows %+v", page.Items)
	}
}
