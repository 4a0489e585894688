package listview

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Schema 声明某类行在各筛选条件下的取值方式。
// 访问器为 nil 的条件视为不支持，筛选时直接跳过。
type Schema[T any] struct {
	SearchFields  func(T) []string
	Status        func(T) string
	Category      func(T) string
	Subcategory   func(T) string
	PaymentStatus func(T) string
	Price         func(T) float64
	Stock         func(T) float64
	Name          func(T) string
	CreatedAt     func(T) time.Time
	UpdatedAt     func(T) time.Time

	PriceBands []Band // 为空时使用 PriceBands
	StockBands []Band // 为空时使用 StockBands
	Now        func() time.Time
}

func (s Schema[T]) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Schema[T]) priceBands() []Band {
	if len(s.PriceBands) > 0 {
		return s.PriceBands
	}
	return PriceBands
}

func (s Schema[T]) stockBands() []Band {
	if len(s.StockBands) > 0 {
		return s.StockBands
	}
	return StockBands
}

type predicate[T any] func(T) bool

// predicates 把条件编译为谓词列表，空条件不产生谓词
func (s Schema[T]) predicates(c Criteria) []predicate[T] {
	var preds []predicate[T]

	if q := normalizeSearch(c.Search); q != "" && s.SearchFields != nil {
		preds = append(preds, func(row T) bool {
			for _, f := range s.SearchFields(row) {
				if strings.Contains(strings.ToLower(f), q) {
					return true
				}
			}
			return false
		})
	}
	if c.Status != "" && s.Status != nil {
		preds = append(preds, equals(s.Status, c.Status))
	}
	if c.Category != "" && s.Category != nil {
		preds = append(preds, equals(s.Category, c.Category))
	}
	if c.Subcategory != "" && s.Subcategory != nil {
		preds = append(preds, equals(s.Subcategory, c.Subcategory))
	}
	if c.PaymentStatus != "" && s.PaymentStatus != nil {
		preds = append(preds, equals(s.PaymentStatus, c.PaymentStatus))
	}
	if c.PriceRange != "" && s.Price != nil {
		if b, ok := findBand(s.priceBands(), c.PriceRange); ok {
			preds = append(preds, func(row T) bool { return b.Contains(s.Price(row)) })
		}
	}
	if c.StockLevel != "" && s.Stock != nil {
		if b, ok := findBand(s.stockBands(), c.StockLevel); ok {
			preds = append(preds, func(row T) bool { return b.Contains(s.Stock(row)) })
		}
	}
	if c.DateRange != "" && s.CreatedAt != nil {
		if maxDays, ok := DateRanges[c.DateRange]; ok {
			now := s.now()
			preds = append(preds, func(row T) bool {
				created := s.CreatedAt(row)
				if created.IsZero() {
					return false
				}
				return daysSince(now, created) <= maxDays
			})
		}
	}
	return preds
}

func equals[T any](get func(T) string, want string) predicate[T] {
	return func(row T) bool { return get(row) == want }
}

// Filter 返回满足全部条件的行（逻辑与），不修改输入切片
func Filter[T any](rows []T, c Criteria, s Schema[T]) []T {
	preds := s.predicates(c)
	out := make([]T, 0, len(rows))
rowLoop:
	for _, row := range rows {
		for _, p := range preds {
			if !p(row) {
				continue rowLoop
			}
		}
		out = append(out, row)
	}
	return out
}

// 排序键
const (
	SortName      = "name"
	SortNewest    = "newest"
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
	SortOldest    = "oldest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// SortKeys 控制台循环切换时使用的顺序，空串表示服务端原始顺序
var SortKeys = []string{"", SortNewest, SortOldest, SortName, SortUpdatedAt, SortPriceAsc, SortPriceDesc}

// Sort 返回按 sortBy 稳定排序后的副本；未知排序键或缺少对应访问器时保持原顺序
func Sort[T any](rows []T, sortBy string, s Schema[T]) []T {
	out := make([]T, len(rows))
	copy(out, rows)

	less := s.less(sortBy)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (s Schema[T]) less(sortBy string) func(a, b T) bool {
	switch sortBy {
	case SortName:
		if s.Name == nil {
			return nil
		}
		col := collate.New(language.Vietnamese, collate.IgnoreCase)
		return func(a, b T) bool { return col.CompareString(s.Name(a), s.Name(b)) < 0 }
	case SortNewest, SortCreatedAt:
		if s.CreatedAt == nil {
			return nil
		}
		return func(a, b T) bool { return s.CreatedAt(a).After(s.CreatedAt(b)) }
	case SortOldest:
		if s.CreatedAt == nil {
			return nil
		}
		return func(a, b T) bool { return s.CreatedAt(a).Before(s.CreatedAt(b)) }
	case SortUpdatedAt:
		if s.UpdatedAt == nil {
			return nil
		}
		return func(a, b T) bool { return s.UpdatedAt(a).After(s.UpdatedAt(b)) }
	case SortPriceAsc:
		if s.Price == nil {
			return nil
		}
		return func(a, b T) bool { return s.Price(a) < s.Price(b) }
	case SortPriceDesc:
		if s.Price == nil {
			return nil
		}
		return func(a, b T) bool { return s.Price(a) > s.Price(b) }
	}
	return nil
}

// Apply 依次执行筛选与排序
func Apply[T any](rows []T, c Criteria, s Schema[T]) []T {
	return Sort(Filter(rows, c, s), c.SortBy, s)
}
