package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/projection"
)

// ProductAPI 商品接口
type ProductAPI interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// VariantAPI 变体接口
type VariantAPI interface {
	Update(ctx context.Context, variantID string, in backend.VariantUpdate) (*domain.Variant, error)
	Toggle(ctx context.Context, variantID string) (*bool, error)
}

// SubcategoryLister 关联子分类名称所需的接口
type SubcategoryLister interface {
	List(ctx context.Context) ([]domain.Subcategory, error)
}

// ProductScreen 商品管理页面。每个变体是一行，行 ID 为变体 ID
type ProductScreen struct {
	*screen[domain.VariantRow]
	products      ProductAPI
	variants      VariantAPI
	categories    CategoryLister
	subcategories SubcategoryLister

	lmu       sync.RWMutex
	catLookup projection.Lookup
	subLookup projection.Lookup
}

// NewProductScreen 创建商品页面
func NewProductScreen(products ProductAPI, variants VariantAPI, categories CategoryLister, subcategories SubcategoryLister, opts ...Option) *ProductScreen {
	o := applyOptions(opts)
	return &ProductScreen{
		screen:        newScreen(func(r domain.VariantRow) string { return r.ID }, VariantSchema(o.now)),
		products:      products,
		variants:      variants,
		categories:    categories,
		subcategories: subcategories,
	}
}

// Lookups 最近一次加载得到的分类与子分类查找表
func (s *ProductScreen) Lookups() (categories, subcategories projection.Lookup) {
	s.lmu.RLock()
	defer s.lmu.RUnlock()
	return s.catLookup, s.subLookup
}

// Load 并行拉取商品、分类与子分类，全部成功后展开为变体行
func (s *ProductScreen) Load(ctx context.Context) error {
	return s.load(ctx, func(ctx context.Context) ([]domain.VariantRow, error) {
		var (
			products []domain.Product
			cats     []domain.Category
			subs     []domain.Subcategory
		)
		err := backend.LoadAll(ctx,
			func(ctx context.Context) (err error) {
				products, err = s.products.List(ctx)
				return err
			},
			func(ctx context.Context) (err error) {
				cats, err = s.categories.List(ctx)
				return err
			},
			func(ctx context.Context) (err error) {
				subs, err = s.subcategories.List(ctx)
				return err
			},
		)
		if err != nil {
			return nil, err
		}

		catLookup := projection.NewLookup(cats, projection.NotAvailable)
		subLookup := projection.NewLookup(subs, projection.NotAvailable)
		rows, err := projection.Variants(products, catLookup, subLookup)
		if err != nil {
			return nil, err
		}
		s.lmu.Lock()
		s.catLookup, s.subLookup = catLookup, subLookup
		s.lmu.Unlock()
		return rows, nil
	})
}

// resolve 按变体 ID 或商品 ID 找到一行
func (s *ProductScreen) resolve(id string) (domain.VariantRow, bool) {
	if row, ok := s.rows.Get(id); ok {
		return row, true
	}
	for _, r := range s.rows.Rows() {
		if r.ProductID == id {
			return r, true
		}
	}
	return domain.VariantRow{}, false
}

// ToggleStatus 启用/停用单个变体
func (s *ProductScreen) ToggleStatus(ctx context.Context, variantID string, cf confirm.Confirmer) error {
	return s.toggle(ctx, variantID, cf, toggleOp[domain.VariantRow]{
		active:    func(r domain.VariantRow) bool { return r.Active },
		setActive: func(r *domain.VariantRow, v bool) { r.Active = v },
		prompt: func(r domain.VariantRow) confirm.Prompt {
			return togglePrompt("sản phẩm", variantLabel(r), r.Active)
		},
		call: s.variants.Toggle,
	})
}

// Delete 删除整个商品，id 可以是变体 ID 或商品 ID；成功后移除该商品的全部变体行
func (s *ProductScreen) Delete(ctx context.Context, id string, cf confirm.Confirmer) error {
	row, ok := s.resolve(id)
	if !ok {
		return ErrRowNotLoaded
	}
	return s.remove(ctx, row.ID, cf, removeOp[domain.VariantRow]{
		prompt: func(r domain.VariantRow) confirm.Prompt {
			return deletePrompt("sản phẩm", r.Name, "Tất cả biến thể của sản phẩm cũng sẽ bị xóa.")
		},
		call: func(ctx context.Context, r domain.VariantRow) error { return s.products.Delete(ctx, r.ProductID) },
		affected: func(target domain.VariantRow) func(domain.VariantRow) bool {
			return func(r domain.VariantRow) bool { return r.ProductID == target.ProductID }
		},
	})
}

// Create 新建商品
func (s *ProductScreen) Create(ctx context.Context, in domain.ProductInput) error {
	if err := domain.Validate(in); err != nil {
		return err
	}
	return s.submit(func() error {
		rec, err := s.products.Create(ctx, in)
		if err != nil {
			return err
		}
		cats, subs := s.Lookups()
		if rec == nil || rec.ID == "" || !cats.Loaded() || !subs.Loaded() {
			return s.Load(ctx)
		}
		s.rows.Append(projection.ProductRows(*rec, cats, subs)...)
		return nil
	})
}

// Update 编辑商品。响应携带商品记录时重新投影该商品的所有行，否则重新加载
func (s *ProductScreen) Update(ctx context.Context, productID string, in domain.ProductInput) error {
	row, ok := s.resolve(productID)
	if !ok {
		return ErrRowNotLoaded
	}
	productID = row.ProductID
	if err := domain.Validate(in); err != nil {
		return err
	}
	return s.submit(func() error {
		rec, err := s.products.Update(ctx, productID, in)
		if err != nil {
			return err
		}
		cats, subs := s.Lookups()
		if rec == nil || rec.ID == "" || !cats.Loaded() || !subs.Loaded() {
			return s.Load(ctx)
		}
		s.rows.Splice(func(r domain.VariantRow) bool { return r.ProductID == productID },
			projection.ProductRows(*rec, cats, subs))
		return nil
	})
}

// UpdateVariant 编辑单个变体
func (s *ProductScreen) UpdateVariant(ctx context.Context, variantID string, in backend.VariantUpdate) error {
	if _, ok := s.rows.Get(variantID); !ok {
		return ErrRowNotLoaded
	}
	if err := domain.Validate(in.Input); err != nil {
		return err
	}
	return s.submit(func() error {
		rec, err := s.variants.Update(ctx, variantID, in)
		if err != nil {
			return err
		}
		s.rows.Patch(variantID, func(r *domain.VariantRow) {
			if rec != nil && rec.ID != "" {
				r.Price = rec.Price.Float()
				r.Stock = rec.Stock.Int()
				r.Storage = rec.Storage
				r.Color = rec.Color
				r.Active = rec.IsActive.Bool()
				if rec.Images != nil {
					r.Images = append([]string(nil), rec.Images...)
				}
				return
			}
			r.Price = in.Input.Price
			r.Stock = in.Input.Stock
			r.Storage = in.Input.Storage
			r.Color = in.Input.Color
			if in.Input.IsActive != nil {
				r.Active = *in.Input.IsActive
			}
		})
		return nil
	})
}

func variantLabel(r domain.VariantRow) string {
	switch {
	case r.Storage != "" && r.Color != "":
		return fmt.Sprintf("%s %s - %s", r.Name, r.Storage, r.Color)
	case r.Storage != "":
		return fmt.Sprintf("%s %s", r.Name, r.Storage)
	case r.Color != "":
		return fmt.Sprintf("%s - %s", r.Name, r.Color)
	}
	return r.Name
}
