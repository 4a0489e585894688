// Package listview 实现列表页的通用数据管线：筛选、排序、分页以及内存中的行集合。
//
// 各资源页面只需提供一个 Schema 声明字段映射，其余逻辑在此共享。
package listview

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Criteria 当前生效的筛选条件，任一字段为空字符串表示不限制
type Criteria struct {
	Search        string `json:"search,omitempty"`
	Status        string `json:"status,omitempty"`
	Category      string `json:"category,omitempty"`
	Subcategory   string `json:"subcategory,omitempty"`
	PriceRange    string `json:"priceRange,omitempty"`
	StockLevel    string `json:"stockLevel,omitempty"`
	DateRange     string `json:"dateRange,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	SortBy        string `json:"sortBy,omitempty"`
}

// 筛选字段名，与查询参数一致
const (
	FieldSearch        = "search"
	FieldStatus        = "status"
	FieldCategory      = "category"
	FieldSubcategory   = "subcategory"
	FieldPriceRange    = "priceRange"
	FieldStockLevel    = "stockLevel"
	FieldDateRange     = "dateRange"
	FieldPaymentStatus = "paymentStatus"
	FieldSortBy        = "sortBy"
)

// Fields 所有可设置的筛选字段
var Fields = []string{
	FieldSearch, FieldStatus, FieldCategory, FieldSubcategory, FieldPriceRange,
	FieldStockLevel, FieldDateRange, FieldPaymentStatus, FieldSortBy,
}

// Set 按字段名设置条件值
func (c *Criteria) Set(field, value string) error {
	p := c.field(field)
	if p == nil {
		return fmt.Errorf("unknown filter field %q", field)
	}
	*p = value
	return nil
}

// Get 按字段名读取条件值
func (c Criteria) Get(field string) string {
	if p := c.field(field); p != nil {
		return *p
	}
	return ""
}

func (c *Criteria) field(name string) *string {
	switch name {
	case FieldSearch:
		return &c.Search
	case FieldStatus:
		return &c.Status
	case FieldCategory:
		return &c.Category
	case FieldSubcategory:
		return &c.Subcategory
	case FieldPriceRange:
		return &c.PriceRange
	case FieldStockLevel:
		return &c.StockLevel
	case FieldDateRange:
		return &c.DateRange
	case FieldPaymentStatus:
		return &c.PaymentStatus
	case FieldSortBy:
		return &c.SortBy
	}
	return nil
}

// 启用状态筛选值
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ActiveStatus 把布尔启用标记映射为状态筛选值
func ActiveStatus(active bool) string {
	if active {
		return StatusActive
	}
	return StatusInactive
}

// Band 数值区间 [Min, Max)
type Band struct {
	Key string
	Min float64
	Max float64
}

// Contains 判断数值是否落在区间内
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v < b.Max
}

// PriceBands 价格区间：低于 500 万、500 万到 1500 万、1500 万及以上
var PriceBands = []Band{
	{Key: "low", Min: math.Inf(-1), Max: 5_000_000},
	{Key: "medium", Min: 5_000_000, Max: 15_000_000},
	{Key: "high", Min: 15_000_000, Max: math.Inf(1)},
}

// StockBands 库存区间：缺货、1-20 件、20 件以上
var StockBands = []Band{
	{Key: "out-of-stock", Min: math.Inf(-1), Max: 1},
	{Key: "low-stock", Min: 1, Max: 21},
	{Key: "in-stock", Min: 21, Max: math.Inf(1)},
}

func findBand(bands []Band, key string) (Band, bool) {
	for _, b := range bands {
		if b.Key == key {
			return b, true
		}
	}
	return Band{}, false
}

// DateRanges 日期区间对应的最大天数，宽松区间包含所有更严格区间的结果
var DateRanges = map[string]int{
	"today": 1,
	"week":  7,
	"month": 30,
}

// daysSince 返回 now 与 t 之间经过的整天数
func daysSince(now, t time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

func normalizeSearch(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
