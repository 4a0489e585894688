package console

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/confirm"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/listview"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/service"
)

// Resources 控制台各页面依赖的后端接口
type Resources struct {
	Categories    service.CategoryAPI
	Subcategories service.SubcategoryAPI
	Products      service.ProductAPI
	Variants      service.VariantAPI
	Orders        service.OrderAPI
}

// action 对选中行执行的变更，cf 为 nil 时视为拒绝确认
type action func(ctx context.Context, id string, cf confirm.Confirmer) error

// pageView 表格的一页
type pageView struct {
	rows       []table.Row
	ids        []string
	page       int
	totalPages int
	totalItems int
}

// tab 一个资源页面在控制台中的呈现。页面在整个程序运行期间存活
type tab struct {
	title    string
	columns  []table.Column
	statuses []string
	sorts    []string
	state    listview.State

	load   func(ctx context.Context) error
	status func() service.Status
	view   func(st listview.State) pageView

	toggle  action
	remove  action
	advance action
	cancel  action
}

type viewer[T any] interface {
	View(st listview.State) listview.Page[T]
}

// pager 把页面的一页转换为表格行
func pager[T any](s viewer[T], key func(T) string, row func(T) table.Row) func(listview.State) pageView {
	return func(st listview.State) pageView {
		p := s.View(st)
		out := pageView{page: p.Page, totalPages: p.TotalPages, totalItems: p.TotalItems}
		for _, r := range p.Items {
			out.rows = append(out.rows, row(r))
			out.ids = append(out.ids, key(r))
		}
		return out
	}
}

var (
	activeStatuses = []string{"", listview.StatusActive, listview.StatusInactive}
	orderStatuses  = []string{"",
		string(domain.OrderStatusPending), string(domain.OrderStatusConfirmed), string(domain.OrderStatusShipping),
		string(domain.OrderStatusDelivered), string(domain.OrderStatusCancelled),
	}
	catalogSorts = []string{"", listview.SortNewest, listview.SortOldest, listview.SortName, listview.SortUpdatedAt}
)

func newTabs(res Resources, pageSize int, opts ...service.Option) []*tab {
	cats := service.NewCategoryScreen(res.Categories, opts...)
	subs := service.NewSubcategoryScreen(res.Subcategories, res.Categories, opts...)
	prods := service.NewProductScreen(res.Products, res.Variants, res.Categories, res.Subcategories, opts...)
	orders := service.NewOrderScreen(res.Orders, opts...)

	return []*tab{
		{
			title: "Danh mục",
			columns: []table.Column{
				{Title: "Tên", Width: 24},
				{Title: "Mô tả", Width: 32},
				{Title: "Trạng thái", Width: 11},
				{Title: "Ngày tạo", Width: 11},
			},
			statuses: activeStatuses,
			sorts:    catalogSorts,
			state:    listview.NewState(pageSize),
			load:     cats.Load,
			status:   cats.Status,
			view: pager(cats, func(r domain.CategoryRow) string { return r.ID }, func(r domain.CategoryRow) table.Row {
				return table.Row{r.Name, r.Description, activeLabel(r.Active), formatDate(r.CreatedAt.Time)}
			}),
			toggle: cats.ToggleStatus,
			remove: cats.Delete,
		},
		{
			title: "Danh mục con",
			columns: []table.Column{
				{Title: "Tên", Width: 24},
				{Title: "Danh mục", Width: 20},
				{Title: "Mô tả", Width: 24},
				{Title: "Trạng thái", Width: 11},
				{Title: "Ngày tạo", Width: 11},
			},
			statuses: activeStatuses,
			sorts:    catalogSorts,
			state:    listview.NewState(pageSize),
			load:     subs.Load,
			status:   subs.Status,
			view: pager(subs, func(r domain.SubcategoryRow) string { return r.ID }, func(r domain.SubcategoryRow) table.Row {
				return table.Row{r.Name, r.CategoryName, r.Description, activeLabel(r.Active), formatDate(r.CreatedAt.Time)}
			}),
			toggle: subs.ToggleStatus,
			remove: subs.Delete,
		},
		{
			title: "Sản phẩm",
			columns: []table.Column{
				{Title: "Sản phẩm", Width: 24},
				{Title: "Phiên bản", Width: 18},
				{Title: "Giá", Width: 15},
				{Title: "Kho", Width: 6},
				{Title: "Danh mục", Width: 16},
				{Title: "Trạng thái", Width: 11},
			},
			statuses: activeStatuses,
			sorts:    append(catalogSorts, listview.SortPriceAsc, listview.SortPriceDesc),
			state:    listview.NewState(pageSize),
			load:     prods.Load,
			status:   prods.Status,
			view: pager(prods, func(r domain.VariantRow) string { return r.ID }, func(r domain.VariantRow) table.Row {
				return table.Row{r.Name, variantLabel(r), formatVND(r.Price), strconv.Itoa(r.Stock), r.CategoryName, activeLabel(r.Active)}
			}),
			toggle: prods.ToggleStatus,
			remove: prods.Delete,
		},
		{
			title: "Đơn hàng",
			columns: []table.Column{
				{Title: "Mã đơn", Width: 12},
				{Title: "Khách hàng", Width: 20},
				{Title: "SL", Width: 4},
				{Title: "Tổng tiền", Width: 15},
				{Title: "Trạng thái", Width: 13},
				{Title: "Thanh toán", Width: 15},
				{Title: "Ngày đặt", Width: 11},
			},
			statuses: orderStatuses,
			sorts:    []string{"", listview.SortNewest, listview.SortOldest, listview.SortPriceAsc, listview.SortPriceDesc},
			state:    listview.NewState(pageSize),
			load:     orders.Load,
			status:   orders.Status,
			view: pager(orders, func(r domain.OrderRow) string { return r.ID }, func(r domain.OrderRow) table.Row {
				return table.Row{
					r.OrderNumber, r.CustomerName, strconv.Itoa(r.ItemCount), formatVND(r.Total),
					r.Status.Label(), paymentLabel(r.EffectivePaymentStatus()), formatDate(r.CreatedAt.Time),
				}
			}),
			advance: orders.Advance,
			cancel:  orders.Cancel,
		},
	}
}
