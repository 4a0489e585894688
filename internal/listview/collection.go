package listview

import "sync"

// Collection 某个页面持有的内存行集合。变更接口用于乐观更新：只改动受影响的行，不重新拉取
type Collection[T any] struct {
	mu     sync.RWMutex
	rows   []T
	key    func(T) string
	loaded bool
}

// NewCollection 创建集合，key 返回行的唯一 ID
func NewCollection[T any](key func(T) string) *Collection[T] {
	return &Collection[T]{key: key}
}

// Replace 用新加载的数据整体替换
func (c *Collection[T]) Replace(rows []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(make([]T, 0, len(rows)), rows...)
	c.loaded = true
}

// Loaded 是否已经成功加载过
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Rows 返回当前行的副本
func (c *Collection[T]) Rows() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.rows))
	copy(out, c.rows)
	return out
}

// Len 行数
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// Get 按 ID 查找
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.rows {
		if c.key(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Patch 原地修改指定行，返回是否找到
func (c *Collection[T]) Patch(id string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.rows {
		if c.key(c.rows[i]) == id {
			fn(&c.rows[i])
			return true
		}
	}
	return false
}

// PatchWhere 修改所有满足条件的行，返回修改数量
func (c *Collection[T]) PatchWhere(pred func(T) bool, fn func(*T)) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i := range c.rows {
		if pred(c.rows[i]) {
			fn(&c.rows[i])
			n++
		}
	}
	return n
}

// RemoveWhere 删除所有满足条件的行，保持其余行顺序，返回删除数量
func (c *Collection[T]) RemoveWhere(pred func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.rows[:0]
	removed := 0
	for _, r := range c.rows {
		if pred(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	var zero T
	for i := len(kept); i < len(c.rows); i++ {
		c.rows[i] = zero
	}
	c.rows = kept
	return removed
}

// Prepend 在头部插入新建的行（新记录排在最前面）
func (c *Collection[T]) Prepend(rows ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(append(make([]T, 0, len(rows)+len(c.rows)), rows...), c.rows...)
}

// Append 在尾部追加行
func (c *Collection[T]) Append(rows ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, rows...)
}

// Splice 用 rows 替换所有满足条件的行，新行放在第一个匹配行的位置；没有匹配时追加到尾部。返回被替换的行数
func (c *Collection[T]) Splice(pred func(T) bool, rows []T) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, 0, len(c.rows)+len(rows))
	replaced, inserted := 0, false
	for _, r := range c.rows {
		if !pred(r) {
			out = append(out, r)
			continue
		}
		replaced++
		if !inserted {
			out = append(out, rows...)
			inserted = true
		}
	}
	if !inserted {
		out = append(out, rows...)
	}
	c.rows = out
	return replaced
}

// KeyOf 返回行的 ID
func (c *Collection[T]) KeyOf(row T) string { return c.key(row) }
