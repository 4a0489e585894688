package listview

// DefaultPageSize 未指定或非法页大小时使用的默认值
const DefaultPageSize = 10

// Page 分页结果
type Page[T any] struct {
	Items        []T  `json:"items"`
	Page         int  `json:"page"`
	PageSize     int  `json:"pageSize"`
	TotalItems   int  `json:"totalItems"`
	TotalPages   int  `json:"totalPages"`
	StartIndex   int  `json:"startIndex"`
	EndIndex     int  `json:"endIndex"`
	ShowControls bool `json:"showControls"`
}

// Paginate 截取指定页的数据。页码越界时收敛到 [1, TotalPages]，不会出错
func Paginate[T any](rows []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page = ClampPage(page, totalPages)

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]T, end-start)
	copy(items, rows[start:end])

	return Page[T]{
		Items:        items,
		Page:         page,
		PageSize:     pageSize,
		TotalItems:   total,
		TotalPages:   totalPages,
		StartIndex:   start,
		EndIndex:     end,
		ShowControls: totalPages > 1,
	}
}

// ClampPage 把页码收敛到 [1, totalPages]
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
