package service

import (
	"time"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/listview"
)

// CategorySchema 分类列表：按名称/描述搜索，按启用状态筛选
func CategorySchema(now func() time.Time) listview.Schema[domain.CategoryRow] {
	return listview.Schema[domain.CategoryRow]{
		SearchFields: func(r domain.CategoryRow) []string { return []string{r.Name, r.Description} },
		Status:       func(r domain.CategoryRow) string { return listview.ActiveStatus(r.Active) },
		Name:         func(r domain.CategoryRow) string { return r.Name },
		CreatedAt:    func(r domain.CategoryRow) time.Time { return r.CreatedAt.Time },
		UpdatedAt:    func(r domain.CategoryRow) time.Time { return r.UpdatedAt.Time },
		Now:          now,
	}
}

// SubcategorySchema 子分类列表，额外支持按所属分类筛选
func SubcategorySchema(now func() time.Time) listview.Schema[domain.SubcategoryRow] {
	return listview.Schema[domain.SubcategoryRow]{
		SearchFields: func(r domain.SubcategoryRow) []string {
			return []string{r.Name, r.Description, r.CategoryName}
		},
		Status:    func(r domain.SubcategoryRow) string { return listview.ActiveStatus(r.Active) },
		Category:  func(r domain.SubcategoryRow) string { return r.CategoryID },
		Name:      func(r domain.SubcategoryRow) string { return r.Name },
		CreatedAt: func(r domain.SubcategoryRow) time.Time { return r.CreatedAt.Time },
		UpdatedAt: func(r domain.SubcategoryRow) time.Time { return r.UpdatedAt.Time },
		Now:       now,
	}
}

// VariantSchema 商品（变体）列表：支持分类、子分类、价格区间与库存区间
func VariantSchema(now func() time.Time) listview.Schema[domain.VariantRow] {
	return listview.Schema[domain.VariantRow]{
		SearchFields: func(r domain.VariantRow) []string {
			return []string{r.Name, r.Description, r.CategoryName, r.SubcategoryName, r.Storage, r.Color}
		},
		Status:      func(r domain.VariantRow) string { return listview.ActiveStatus(r.Active) },
		Category:    func(r domain.VariantRow) string { return r.CategoryID },
		Subcategory: func(r domain.VariantRow) string { return r.SubcategoryID },
		Price:       func(r domain.VariantRow) float64 { return r.Price },
		Stock:       func(r domain.VariantRow) float64 { return float64(r.Stock) },
		Name:        func(r domain.VariantRow) string { return r.Name },
		CreatedAt:   func(r domain.VariantRow) time.Time { return r.CreatedAt.Time },
		UpdatedAt:   func(r domain.VariantRow) time.Time { return r.UpdatedAt.Time },
		Now:         now,
	}
}

// OrderSchema 订单列表：状态筛选使用订单状态，支付状态按“已送达即已支付”计算
func OrderSchema(now func() time.Time) listview.Schema[domain.OrderRow] {
	return listview.Schema[domain.OrderRow]{
		SearchFields: func(r domain.OrderRow) []string {
			return []string{r.ID, r.OrderNumber, r.CustomerName, r.Email, r.Phone}
		},
		Status:        func(r domain.OrderRow) string { return string(r.Status) },
		PaymentStatus: func(r domain.OrderRow) string { return r.EffectivePaymentStatus() },
		Price:         func(r domain.OrderRow) float64 { return r.Total },
		Name:          func(r domain.OrderRow) string { return r.CustomerName },
		CreatedAt:     func(r domain.OrderRow) time.Time { return r.CreatedAt.Time },
		UpdatedAt:     func(r domain.OrderRow) time.Time { return r.UpdatedAt.Time },
		Now:           now,
	}
}
