package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 支付状态
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// forward 订单正向流转顺序
var forward = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusShipping,
	OrderStatusShipping:  OrderStatusDelivered,
}

// Valid 是否为已知状态
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal delivered 与 cancelled 为终态
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Label 越南语展示名，控制台和确认提示使用
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Chờ xác nhận"
	case OrderStatusConfirmed:
		return "Đã xác nhận"
	case OrderStatusShipping:
		return "Đang giao"
	case OrderStatusDelivered:
		return "Đã giao"
	case OrderStatusCancelled:
		return "Đã hủy"
	}
	return string(s)
}

// NextOrderStatus 返回正向流转的下一个状态，终态返回 false
func NextOrderStatus(s OrderStatus) (OrderStatus, bool) {
	next, ok := forward[s]
	return next, ok
}

// CanTransition 判断 from -> to 是否合法：只能前进一步，或从非终态取消
func CanTransition(from, to OrderStatus) bool {
	if !to.Valid() || from.Terminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	next, ok := forward[from]
	return ok && next == to
}

// TransitionError 非法的状态流转
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

// OrderStatusUpdate PATCH /api/orders/admin/:id 的请求体
type OrderStatusUpdate struct {
	Status        OrderStatus `json:"status"`
	PaymentStatus string      `json:"paymentStatus,omitempty"`
	PaidAt        *time.Time  `json:"paidAt,omitempty"`
}

// OrderTransition 构造状态流转请求；流转到 delivered 时同时标记已支付
func OrderTransition(next OrderStatus, now time.Time) OrderStatusUpdate {
	u := OrderStatusUpdate{Status: next}
	if next == OrderStatusDelivered {
		paidAt := now.UTC()
		u.PaymentStatus = PaymentStatusPaid
		u.PaidAt = &paidAt
	}
	return u
}

// OrderCustomer 下单用户；后端可能返回已填充的对象或仅返回用户 ID
type OrderCustomer struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UnmarshalJSON 兼容字符串 ID 与对象两种形式
func (c *OrderCustomer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.ID)
	}
	type plain OrderCustomer
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	*c = OrderCustomer(p)
	return nil
}

// ShippingAddress 收货信息
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// OrderItem 订单明细
type OrderItem struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Name      string `json:"name"`
	Quantity  Number `json:"quantity"`
	Price     Number `json:"price"`
}

// Order 后端返回的订单记录
type Order struct {
	ID              string          `json:"_id"`
	OrderNumber     string          `json:"orderNumber"`
	User            OrderCustomer   `json:"userId"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     Number          `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaidAt          Timestamp       `json:"paidAt"`
	CreatedAt       Timestamp       `json:"createdAt"`
	UpdatedAt       Timestamp       `json:"updatedAt"`
}

// OrderRow 订单列表视图行
type OrderRow struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	CustomerName  string      `json:"customerName"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	ItemCount     int         `json:"itemCount"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentMethod string      `json:"paymentMethod"`
	PaidAt        Timestamp   `json:"paidAt"`
	CreatedAt     Timestamp   `json:"createdAt"`
	UpdatedAt     Timestamp   `json:"updatedAt"`
}

// EffectivePaymentStatus 展示与筛选使用的支付状态：已送达的订单一律视为已支付
func (r OrderRow) EffectivePaymentStatus() string {
	if r.Status == OrderStatusDelivered {
		return PaymentStatusPaid
	}
	return r.PaymentStatus
}

// MarshalJSON paymentStatus 输出展示用的支付状态，后端原值放在 storedPaymentStatus
func (r OrderRow) MarshalJSON() ([]byte, error) {
	type plain OrderRow
	return json.Marshal(struct {
		plain
		PaymentStatus       string `json:"paymentStatus"`
		StoredPaymentStatus string `json:"storedPaymentStatus"`
	}{plain(r), r.EffectivePaymentStatus(), r.PaymentStatus})
}
