package service

import (
	"context"
	"sync"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
)

// fakeCategoryAPI 内存实现的分类接口
type fakeCategoryAPI struct {
	mu         sync.Mutex
	categories []domain.Category
	listErr    error
	err        error // 变更接口统一返回的错误
	toggled    *bool // Toggle 返回的服务端状态
	created    *domain.Category
	updated    *domain.Category
	calls      []string
}

func (f *fakeCategoryAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCategoryAPI) List(ctx context.Context) ([]domain.Category, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.categories, nil
}

func (f *fakeCategoryAPI) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	f.record("create")
	return f.created, f.err
}

func (f *fakeCategoryAPI) Update(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	f.record("update:" + id)
	return f.updated, f.err
}

func (f *fakeCategoryAPI) Toggle(ctx context.Context, id string) (*bool, error) {
	f.record("toggle:" + id)
	if f.err != nil {
		return nil, f.err
	}
	return f.toggled, nil
}

func (f *fakeCategoryAPI) Delete(ctx context.Context, id string) error {
	f.record("delete:" + id)
	return f.err
}

// fakeSubcategoryAPI 内存实现的子分类接口
type fakeSubcategoryAPI struct {
	subcategories []domain.Subcategory
	err           error
	byCategory    []string
}

func (f *fakeSubcategoryAPI) List(ctx context.Context) ([]domain.Subcategory, error) {
	return f.subcategories, nil
}

func (f *fakeSubcategoryAPI) ListByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	f.byCategory = append(f.byCategory, categoryID)
	var out []domain.Subcategory
	for _, s := range f.subcategories {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubcategoryAPI) Create(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	return &domain.Subcategory{ID: "new", Name: in.Name, CategoryID: in.CategoryID, IsActive: true}, f.err
}

func (f *fakeSubcategoryAPI) Update(ctx context.Context, id string, in domain.SubcategoryInput) (*domain.Subcategory, error) {
	return nil, f.err
}

func (f *fakeSubcategoryAPI) Toggle(ctx context.Context, id string) (*bool, error) { return nil, f.err }

func (f *fakeSubcategoryAPI) Delete(ctx context.Context, id string) error { return f.err }

// fakeProductAPI 内存实现的商品与变体接口
type fakeProductAPI struct {
	products []domain.Product
	err      error
	updated  *domain.Product
	deleted  []string
	toggled  []string
}

func (f *fakeProductAPI) List(ctx context.Context) ([]domain.Product, error) { return f.products, nil }

func (f *fakeProductAPI) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return nil, f.err
}

func (f *fakeProductAPI) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	return f.updated, f.err
}

func (f *fakeProductAPI) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeProductAPI) UpdateVariant(ctx context.Context, variantID string, in backend.VariantUpdate) (*domain.Variant, error) {
	return nil, f.err
}

// fakeVariantAPI 把变体接口转到 fakeProductAPI
type fakeVariantAPI struct{ p *fakeProductAPI }

func (f fakeVariantAPI) Update(ctx context.Context, variantID string, in backend.VariantUpdate) (*domain.Variant, error) {
	return f.p.UpdateVariant(ctx, variantID, in)
}

func (f fakeVariantAPI) Toggle(ctx context.Context, variantID string) (*bool, error) {
	f.p.toggled = append(f.p.toggled, variantID)
	return nil, f.p.err
}

// fakeOrderAPI 记录提交的状态流转
type fakeOrderAPI struct {
	orders  []domain.Order
	err     error
	updates []domain.OrderStatusUpdate
}

func (f *fakeOrderAPI) List(ctx context.Context) ([]domain.Order, error) { return f.orders, nil }

func (f *fakeOrderAPI) UpdateStatus(ctx context.Context, id string, u domain.OrderStatusUpdate) (*domain.Order, error) {
	f.updates = append(f.updates, u)
	return nil, f.err
}
