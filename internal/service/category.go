package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/projection"
)

// CategoryAPI 分类页面依赖的后端接口
type CategoryAPI interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error)
	Toggle(ctx context.Context, id string) (*bool, error)
	Delete(ctx context.Context, id string) error
}

// CategoryScreen 分类管理页面
type CategoryScreen struct {
	*screen[domain.CategoryRow]
	api CategoryAPI
}

// NewCategoryScreen 创建分类页面
func NewCategoryScreen(api CategoryAPI, opts ...Option) *CategoryScreen {
	o := applyOptions(opts)
	return &CategoryScreen{
		screen: newScreen(func(r domain.CategoryRow) string { return r.ID }, CategorySchema(o.now)),
		api:    api,
	}
}

// Load 加载全部分类
func (s *CategoryScreen) Load(ctx context.Context) error {
	return s.load(ctx, func(ctx context.Context) ([]domain.CategoryRow, error) {
		raw, err := s.api.List(ctx)
		if err != nil {
			return nil, err
		}
		return projection.Categories(raw), nil
	})
}

// ToggleStatus 启用/停用分类
func (s *CategoryScreen) ToggleStatus(ctx context.Context, id string, cf confirm.Confirmer) error {
	return s.toggle(ctx, id, cf, toggleOp[domain.CategoryRow]{
		active:    func(r domain.CategoryRow) bool { return r.Active },
		setActive: func(r *domain.CategoryRow, v bool) { r.Active = v },
		prompt:    func(r domain.CategoryRow) confirm.Prompt { return togglePrompt("danh mục", r.Name, r.Active) },
		call:      s.api.Toggle,
	})
}

// Delete 删除分类，只有没有子分类的分类才能被后端删除
func (s *CategoryScreen) Delete(ctx context.Context, id string, cf confirm.Confirmer) error {
	return s.remove(ctx, id, cf, removeOp[domain.CategoryRow]{
		prompt: func(r domain.CategoryRow) confirm.Prompt {
			return deletePrompt("danh mục", r.Name, "Chỉ có thể xóa danh mục không còn danh mục con.")
		},
		call: func(ctx context.Context, r domain.CategoryRow) error { return s.api.Delete(ctx, r.ID) },
	})
}

// Create 新建分类，校验失败时不发请求
func (s *CategoryScreen) Create(ctx context.Context, in domain.CategoryInput) error {
	if err := domain.Validate(in); err != nil {
		return err
	}
	return s.submit(func() error {
		rec, err := s.api.Create(ctx, in)
		if err != nil {
			return err
		}
		if rec == nil || rec.ID == "" {
			return s.Load(ctx)
		}
		s.rows.Append(projection.Category(*rec))
		return nil
	})
}

// Update 编辑分类
func (s *CategoryScreen) Update(ctx context.Context, id string, in domain.CategoryInput) error {
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
		s.rows.Patch(id, func(r *domain.CategoryRow) {
			if rec != nil && rec.ID != "" {
				*r = projection.Category(*rec)
				return
			}
			r.Name = in.Name
			r.Description = in.Description
			if in.IsActive != nil {
				r.Active = *in.IsActive
			}
		})
		return nil
	})
}

// Option 页面可选项
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock 替换时钟，日期筛选与订单支付时间使用
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func togglePrompt(noun, name string, active bool) confirm.Prompt {
	verb := "bật"
	if active {
		verb = "tắt"
	}
	return confirm.Prompt{
		Title:   "Xác nhận thay đổi trạng thái",
		Message: fmt.Sprintf("Bạn có chắc muốn %s %s \"%s\"?", verb, noun, name),
	}
}

func deletePrompt(noun, name, precondition string) confirm.Prompt {
	return confirm.Prompt{
		Title:   "Xác nhận xóa",
		Message: fmt.Sprintf("Bạn có chắc muốn xóa %s \"%s\"? Hành động này không thể hoàn tác. %s", noun, name, precondition),
		Severe:  true,
	}
}
