// Package service 实现各资源的列表页面：加载并投影数据、在内存中筛选分页，以及带确认步骤的变更与乐观更新。
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/listview"
)

var (
	// ErrRowNotLoaded 目标行不在当前页面数据中，操作被忽略
	ErrRowNotLoaded = errors.New("row not loaded")
	// ErrNotConfirmed 用户取消了确认
	ErrNotConfirmed = errors.New("action not confirmed")
	// ErrBusy 上一次提交尚未结束
	ErrBusy = errors.New("another submission is in progress")
)

// Status 页面状态
type Status struct {
	Loaded     bool   `json:"loaded"`
	Loading    bool   `json:"loading"`
	Submitting bool   `json:"submitting"`
	Error      string `json:"error,omitempty"`
}

// screen 各资源页面共享的核心：行集合、筛选 schema 与加载/提交标记
type screen[T any] struct {
	rows   *listview.Collection[T]
	schema listview.Schema[T]

	mu         sync.Mutex
	loading    bool
	submitting bool
	lastErr    string
}

func newScreen[T any](key func(T) string, schema listview.Schema[T]) *screen[T] {
	return &screen[T]{
		rows:   listview.NewCollection(key),
		schema: schema,
	}
}

// Status 返回当前状态快照
func (s *screen[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Loaded:     s.rows.Loaded(),
		Loading:    s.loading,
		Submitting: s.submitting,
		Error:      s.lastErr,
	}
}

// Rows 当前全部行（未筛选）
func (s *screen[T]) Rows() []T { return s.rows.Rows() }

// Get 按 ID 取行
func (s *screen[T]) Get(id string) (T, bool) { return s.rows.Get(id) }

// List 对当前行执行筛选、排序与分页
func (s *screen[T]) List(c listview.Criteria, page, pageSize int) listview.Page[T] {
	return listview.Paginate(listview.Apply(s.rows.Rows(), c, s.schema), page, pageSize)
}

// View 按交互状态返回当前页
func (s *screen[T]) View(st listview.State) listview.Page[T] {
	return listview.View(s.rows.Rows(), st, s.schema)
}

// load 拉取并替换全部行；失败时保留旧数据并记录错误
func (s *screen[T]) load(ctx context.Context, fetch func(ctx context.Context) ([]T, error)) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	rows, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return err
	}
	s.lastErr = ""
	s.rows.Replace(rows)
	return nil
}

// submit 执行一次变更，同一时刻只允许一个提交
func (s *screen[T]) submit(fn func() error) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrBusy
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()
	return fn()
}

// ask 向 confirmer 请求确认，nil 视为拒绝
func ask(ctx context.Context, cf confirm.Confirmer, p confirm.Prompt) error {
	if cf == nil || !cf.Confirm(ctx, p) {
		return ErrNotConfirmed
	}
	return nil
}

// toggleOp 切换启用状态所需的访问器
type toggleOp[T any] struct {
	active    func(T) bool
	setActive func(*T, bool)
	prompt    func(T) confirm.Prompt
	call      func(ctx context.Context, id string) (*bool, error)
}

// toggle 确认后切换启用状态，成功时只修改该行的启用标记：优先采用服务端返回值，否则取反
func (s *screen[T]) toggle(ctx context.Context, id string, cf confirm.Confirmer, op toggleOp[T]) error {
	row, ok := s.rows.Get(id)
	if !ok {
		return ErrRowNotLoaded
	}
	if err := ask(ctx, cf, op.prompt(row)); err != nil {
		return err
	}
	return s.submit(func() error {
		server, err := op.call(ctx, id)
		if err != nil {
			return err
		}
		next := !op.active(row)
		if server != nil {
			next = *server
		}
		s.rows.Patch(id, func(r *T) { op.setActive(r, next) })
		return nil
	})
}

// removeOp 删除所需的访问器
type removeOp[T any] struct {
	prompt func(T) confirm.Prompt
	call   func(ctx context.Context, row T) error
	// affected 删除成功后需要移除的行；为 nil 时只移除目标行
	affected func(target T) func(T) bool
}

// remove 确认后删除，成功时移除受影响的行
func (s *screen[T]) remove(ctx context.Context, id string, cf confirm.Confirmer, op removeOp[T]) error {
	row, ok := s.rows.Get(id)
	if !ok {
		return ErrRowNotLoaded
	}
	if err := ask(ctx, cf, op.prompt(row)); err != nil {
		return err
	}
	return s.submit(func() error {
		if err := op.call(ctx, row); err != nil {
			return err
		}
		match := func(r T) bool { return s.rows.KeyOf(r) == id }
		if op.affected != nil {
			match = op.affected(row)
		}
		s.rows.RemoveWhere(match)
		return nil
	})
}
