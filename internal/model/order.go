package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
)

// OrderStatuses lists the accepted values. Admins may set any of them in
// any order; there is no enforced progression.
var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered}

func ValidOrderStatus(s OrderStatus) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentBankTransfer   = "bank_transfer"
)

// OrderItem freezes a cart line at purchase time. PriceAtPurchase never
// changes afterwards even if the catalog price does.
type OrderItem struct {
	ProductID       string          `json:"product"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type Order struct {
	ID                 string          `json:"_id"`
	UserID             string          `json:"user"`
	Items              []OrderItem     `json:"items"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	UserTypeAtPurchase Tier            `json:"userTypeAtPurchase"`
	Status             OrderStatus     `json:"status"`
	ShippingAddress    string          `json:"shippingAddress"`
	PaymentMethod      string          `json:"paymentMethod"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// AnalyticsSummary aggregates the order book for the admin dashboard.
type AnalyticsSummary struct {
	TotalSales  decimal.Decimal     `json:"totalSales"`
	OrdersCount int                 `json:"ordersCount"`
	ByStatus    map[OrderStatus]int `json:"byStatus"`
}
