// Package projection 把后端原始记录投影为列表视图行：布尔值归一、ID 关联出名称、商品按变体展开。
package projection

import (
	"errors"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
)

// 关联不到名称时的占位文本
const (
	UnknownName  = "Không xác định" // 子分类所属分类
	NotAvailable = "N/A"            // 商品行的分类/子分类
)

// ErrLookupPending 关联数据尚未加载，此时投影会把占位文本固化到行里，因此直接拒绝
var ErrLookupPending = errors.New("projection: lookup not loaded")

// Lookup ID 到名称的映射。零值表示尚未加载
type Lookup struct {
	names       map[string]string
	placeholder string
}

// Named 可以建立查找表的记录
type Named interface {
	domain.Category | domain.Subcategory
}

// NewLookup 由记录建立查找表
func NewLookup[T Named](records []T, placeholder string) Lookup {
	names := make(map[string]string, len(records))
	for _, r := range records {
		switch v := any(r).(type) {
		case domain.Category:
			names[v.ID] = v.Name
		case domain.Subcategory:
			names[v.ID] = v.Name
		}
	}
	return Lookup{names: names, placeholder: placeholder}
}

// Loaded 查找表是否已加载
func (l Lookup) Loaded() bool { return l.names != nil }

// Name 返回 id 对应的名称，不存在时返回占位文本
func (l Lookup) Name(id string) string {
	if n, ok := l.names[id]; ok {
		return n
	}
	return l.placeholder
}

// Len 条目数
func (l Lookup) Len() int { return len(l.names) }

// Categories 分类 1:1 投影
func Categories(raw []domain.Category) []domain.CategoryRow {
	rows := make([]domain.CategoryRow, 0, len(raw))
	for _, c := range raw {
		rows = append(rows, Category(c))
	}
	return rows
}

// Category 单条分类投影
func Category(c domain.Category) domain.CategoryRow {
	return domain.CategoryRow{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.IsActive.Bool(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Subcategories 子分类 1:1 投影，关联出所属分类名称
func Subcategories(raw []domain.Subcategory, categories Lookup) ([]domain.SubcategoryRow, error) {
	if !categories.Loaded() {
		return nil, ErrLookupPending
	}
	rows := make([]domain.SubcategoryRow, 0, len(raw))
	for _, s := range raw {
		rows = append(rows, Subcategory(s, categories))
	}
	return rows, nil
}

// Subcategory 单条子分类投影
func Subcategory(s domain.Subcategory, categories Lookup) domain.SubcategoryRow {
	return domain.SubcategoryRow{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		CategoryID:   s.CategoryID,
		CategoryName: categories.Name(s.CategoryID),
		Active:       s.IsActive.Bool(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// Variants 把商品展开为变体行：没有变体的商品不产生行，N 个变体产生 N 行
func Variants(products []domain.Product, categories, subcategories Lookup) ([]domain.VariantRow, error) {
	if !categories.Loaded() || !subcategories.Loaded() {
		return nil, ErrLookupPending
	}
	rows := make([]domain.VariantRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, ProductRows(p, categories, subcategories)...)
	}
	return rows, nil
}

// ProductRows 单个商品的全部变体行
func ProductRows(p domain.Product, categories, subcategories Lookup) []domain.VariantRow {
	rows := make([]domain.VariantRow, 0, len(p.Variants))
	for _, v := range p.Variants {
		images := make([]string, len(v.Images))
		copy(images, v.Images)
		rows = append(rows, domain.VariantRow{
			ID:              v.ID,
			ProductID:       p.ID,
			Name:            p.Name,
			Description:     p.Description,
			CategoryID:      p.CategoryID,
			CategoryName:    categories.Name(p.CategoryID),
			SubcategoryID:   p.SubcategoryID,
			SubcategoryName: subcategories.Name(p.SubcategoryID),
			Price:           v.Price.Float(),
			Stock:           v.Stock.Int(),
			Storage:         v.Storage,
			Color:           v.Color,
			Images:          images,
			Active:          v.IsActive.Bool(),
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		})
	}
	return rows
}

// Orders 订单 1:1 投影
func Orders(raw []domain.Order) []domain.OrderRow {
	rows := make([]domain.OrderRow, 0, len(raw))
	for _, o := range raw {
		rows = append(rows, Order(o))
	}
	return rows
}

// Order 单条订单投影
func Order(o domain.Order) domain.OrderRow {
	name := o.User.Name
	if name == "" {
		name = o.ShippingAddress.FullName
	}
	phone := o.ShippingAddress.Phone
	if phone == "" {
		phone = o.User.Phone
	}
	items := 0
	for _, it := range o.Items {
		items += it.Quantity.Int()
	}
	return domain.OrderRow{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  name,
		Email:         o.User.Email,
		Phone:         phone,
		ItemCount:     items,
		Total:         o.TotalAmount.Float(),
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
