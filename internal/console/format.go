package console

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/domain"
	"github.com/nguyenthanhphat1510/tp-shop-admin/internal/listview"
)

var vi = message.NewPrinter(language.Vietnamese)

// formatVND 越南盾金额，按越南语习惯用点分组：20.000.000 ₫
func formatVND(v float64) string {
	return vi.Sprintf("%d ₫", int64(v))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006")
}

func activeLabel(active bool) string {
	if active {
		return "Hoạt động"
	}
	return "Tạm ngưng"
}

func paymentLabel(s string) string {
	switch s {
	case domain.PaymentStatusPaid:
		return "Đã thanh toán"
	case domain.PaymentStatusPending:
		return "Chưa thanh toán"
	case domain.PaymentStatusFailed:
		return "Thất bại"
	}
	return s
}

// statusLabel 状态筛选值的展示名，空串为全部
func statusLabel(s string) string {
	switch s {
	case "":
		return "Tất cả"
	case listview.StatusActive:
		return activeLabel(true)
	case listview.StatusInactive:
		return activeLabel(false)
	}
	return domain.OrderStatus(s).Label()
}

func sortLabel(s string) string {
	switch s {
	case "":
		return "Mặc định"
	case listview.SortNewest:
		return "Mới nhất"
	case listview.SortOldest:
		return "Cũ nhất"
	case listview.SortName:
		return "Tên A-Z"
	case listview.SortUpdatedAt:
		return "Mới cập nhật"
	case listview.SortPriceAsc:
		return "Giá tăng dần"
	case listview.SortPriceDesc:
		return "Giá giảm dần"
	}
	return s
}

func variantLabel(r domain.VariantRow) string {
	parts := make([]string, 0, 2)
	if r.Storage != "" {
		parts = append(parts, r.Storage)
	}
	if r.Color != "" {
		parts = append(parts, r.Color)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " / ")
}

// next 在 values 中循环取 cur 的下一个值
func next(values []string, cur string) string {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
