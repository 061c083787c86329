package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// 前進のみの遷移表。DeliveredとCancelledは終端。
// CancelledにはPendingからしか行けない。
var orderStatusNext = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ParseOrderStatus は入力文字列をステータスに解決する（大文字小文字は区別しない）。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return OrderStatusPending, true
	case "confirmed":
		return OrderStatusConfirmed, true
	case "shipped":
		return OrderStatusShipped, true
	case "delivered":
		return OrderStatusDelivered, true
	case "cancelled":
		return OrderStatusCancelled, true
	}
	return "", false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range orderStatusNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderStatusNext[s]) == 0
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// 配送先住所のスナップショット。
type DeliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// 住所未指定の注文に入れるデフォルト。
func DefaultDeliveryAddress() DeliveryAddress {
	return DeliveryAddress{
		Street:  "Default Address",
		City:    "Mumbai",
		State:   "Maharashtra",
		Pincode: "400001",
		Country: "India",
	}
}

// 注文の明細。注文確定時点のスナップショットで、以後変更しない。
type OrderLine struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// 注文。作成後に変わるのは Status / PaymentStatus / UpdatedAt だけ。
type Order struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	UserName          string          `json:"userName"`
	UserEmail         string          `json:"userEmail"`
	Items             []OrderLine     `json:"items"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            OrderStatus     `json:"status"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
	DeliveryAddress   DeliveryAddress `json:"deliveryAddress"`
	OrderNotes        string          `json:"orderNotes,omitempty"`
	OrderDate         time.Time       `json:"orderDate"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ShortOrderID は画面表示用の短縮ID（フルIDの4〜12文字目を大文字で）。
func ShortOrderID(fullID string) string {
	if len(fullID) < 12 {
		return strings.ToUpper(fullID)
	}
	return strings.ToUpper(fullID[4:12])
}
