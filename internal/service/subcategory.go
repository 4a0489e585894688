package service

import (
	"context"
	"sync"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/backend"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/projection"
)

// CategoryLister 关联分类名称所需的接口
type CategoryLister interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// SubcategoryAPI 子分类页面依赖的后端接口
type SubcategoryAPI interface {
	List(ctx context.Context) ([]domain.Subcategory, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	Create(ctx context.Context, in domain.SubcategoryInput) (*domain.Subcategory, error)
	Update(ctx context.Context, id string, in domain.SubcategoryInput) (*domain.Subcategory, error)
	Toggle(ctx context.Context, id string) (*bool, error)
	Delete(ctx context.Context, id string) error
}

// SubcategoryScreen 子分类管理页面。可以限定在某个分类下，此时只拉取该分类的子分类
type SubcategoryScreen struct {
	*screen[domain.SubcategoryRow]
	api        SubcategoryAPI
	categories CategoryLister

	lmu        sync.RWMutex
	categoryID string
	lookup     projection.Lookup
}

// NewSubcategoryScreen 创建子分类页面
func NewSubcategoryScreen(api SubcategoryAPI, categories CategoryLister, opts ...Option) *SubcategoryScreen {
	o := applyOptions(opts)
	return &SubcategoryScreen{
		screen:     newScreen(func(r domain.SubcategoryRow) string { return r.ID }, SubcategorySchema(o.now)),
		api:        api,
		categories: categories,
	}
}

// CategoryID 当前限定的分类，空串表示全部
func (s *SubcategoryScreen) CategoryID() string {
	s.lmu.RLock()
	defer s.lmu.RUnlock()
	return s.categoryID
}

// Categories 最近一次加载得到的分类查找表
func (s *SubcategoryScreen) Categories() projection.Lookup {
	s.lmu.RLock()
	defer s.lmu.RUnlock()
	return s.lookup
}

// SetCategory 切换所属分类并重新加载
func (s *SubcategoryScreen) SetCategory(ctx context.Context, categoryID string) error {
	s.lmu.Lock()
	s.categoryID = categoryID
	s.lmu.Unlock()
	return s.Load(ctx)
}

// Load 并行拉取子分类与分类，全部成功后再投影
func (s *SubcategoryScreen) Load(ctx context.Context) error {
	categoryID := s.CategoryID()
	return s.load(ctx, func(ctx context.Context) ([]domain.SubcategoryRow, error) {
		var (
			subs []domain.Subcategory
			cats []domain.Category
		)
		err := backend.LoadAll(ctx,
			func(ctx context.Context) (err error) {
				if categoryID != "" {
					subs, err = s.api.ListByCategory(ctx, categoryID)
				} else {
					subs, err = s.api.List(ctx)
				}
				return err
			},
			func(ctx context.Context) (err error) {
				cats, err = s.categories.List(ctx)
				return err
			},
		)
		if err != nil {
			return nil, err
		}

		lookup := projection.NewLookup(cats, projection.UnknownName)
		rows, err := projection.Subcategories(subs, lookup)
		if err != nil {
			return nil, err
		}
		s.lmu.Lock()
		s.lookup = lookup
		s.lmu.Unlock()
		return rows, nil
	})
}

// ToggleStatus 启用/停用子分类
func (s *SubcategoryScreen) ToggleStatus(ctx context.Context, id string, cf confirm.Confirmer) error {
	return s.toggle(ctx, id, cf, toggleOp[domain.SubcategoryRow]{
		active:    func(r domain.SubcategoryRow) bool { return r.Active },
		setActive: func(r *domain.SubcategoryRow, v bool) { r.Active = v },
		prompt:    func(r domain.SubcategoryRow) confirm.Prompt { return togglePrompt("danh mục con", r.Name, r.Active) },
		call:      s.api.Toggle,
	})
}

// Delete 删除子分类，只有没有商品的子分类才能被后端删除
func (s *SubcategoryScreen) Delete(ctx context.Context, id string, cf confirm.Confirmer) error {
	return s.remove(ctx, id, cf, removeOp[domain.SubcategoryRow]{
		prompt: func(r domain.SubcategoryRow) confirm.Prompt {
			return deletePrompt("danh mục con", r.Name, "Chỉ có thể xóa danh mục con không còn sản phẩm.")
		},
		call: func(ctx context.Context, r domain.SubcategoryRow) error { return s.api.Delete(ctx, r.ID) },
	})
}

// Create 新建子分类
func (s *SubcategoryScreen) Create(ctx context.Context, in domain.SubcategoryInput) error {
	if err := domain.Validate(in); err != nil {
		return err
	}
	return s.submit(func() error {
		rec, err := s.api.Create(ctx, in)
		if err != nil {
			return err
		}
		if rec == nil || rec.ID == "" || !s.Categories().Loaded() {
			return s.Load(ctx)
		}
		if cid := s.CategoryID(); cid != "" && rec.CategoryID != cid {
			return nil
		}
		s.rows.Append(projection.Subcategory(*rec, s.Categories()))
		return nil
	})
}

// Update 编辑子分类
func (s *SubcategoryScreen) Update(ctx context.Context, id string, in domain.SubcategoryInput) error {
	if _, ok := s.rows.Get(id); !ok {
		return ErrRowNotLoaded
	}
	if err := domain.Validate(in); err != nil {
		return err
	}
	return s.submit(func() error {
		rec, err := s.api.Update(ctx, id, in)
		if err != nil {
			return err
		}
		lookup := s.Categories()
		s.rows.Patch(id, func(r *domain.SubcategoryRow) {
			if rec != nil && rec.ID != "" {
				*r = projection.Subcategory(*rec, lookup)
				return
			}
			r.Name = in.Name
			r.Description = in.Description
			r.CategoryID = in.CategoryID
			r.CategoryName = lookup.Name(in.CategoryID)
			if in.IsActive != nil {
				r.Active = *in.IsActive
			}
		})
		return nil
	})
}
