package listview

// State 列表页的交互状态：筛选条件 + 分页。
// 修改搜索词、任一筛选条件、排序或页大小都会回到第 1 页。
type State struct {
	Criteria Criteria `json:"criteria"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// NewState 创建初始状态
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{Page: 1, PageSize: pageSize}
}

// SetSearch 设置搜索词
func (s *State) SetSearch(q string) {
	s.Criteria.Search = q
	s.Page = 1
}

// SetFilter 按字段名设置筛选条件
func (s *State) SetFilter(field, value string) error {
	if err := s.Criteria.Set(field, value); err != nil {
		return err
	}
	s.Page = 1
	return nil
}

// SetSortBy 设置排序键
func (s *State) SetSortBy(key string) {
	s.Criteria.SortBy = key
	s.Page = 1
}

// SetPageSize 修改页大小
func (s *State) SetPageSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	s.PageSize = n
	s.Page = 1
}

// SetPage 跳转页码，越界由 Paginate 收敛
func (s *State) SetPage(n int) {
	s.Page = n
}

// Reset 清空所有条件
func (s *State) Reset() {
	s.Criteria = Criteria{}
	s.Page = 1
}

// View 对给定行执行完整管线：筛选、排序、分页
func View[T any](rows []T, st State, schema Schema[T]) Page[T] {
	return Paginate(Apply(rows, st.Criteria, schema), st.Page, st.PageSize)
}
