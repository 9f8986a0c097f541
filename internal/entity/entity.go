// Package entity holds the dev server's persistence models. Wire types
// live in internal/model; these carry the gorm column mapping.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string `gorm:"primaryKey;size:64;not null"`
	Name         string `gorm:"size:128;not null"`
	Email        string `gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	UserType     string `gorm:"size:32;index;not null"` // customer, vip_customer, admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID               string   `gorm:"primaryKey;size:64;not null"`
	Name             string   `gorm:"size:128;not null"`
	Category         string   `gorm:"size:64;index"`
	Description      string
	Images           []string        `gorm:"serializer:json"`
	StockQuantity    int             `gorm:"not null"`
	AdminPrice       decimal.Decimal `gorm:"type:numeric;not null"`
	VIPCustomerPrice decimal.Decimal `gorm:"type:numeric;not null"`
	CustomerPrice    decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CartItem struct {
	ID uint `gorm:"primaryKey"`
	// one row per (user, product)
	UserID    string `gorm:"size:64;index:idx_cart_user_product,unique;not null"`
	ProductID string `gorm:"size:64;index:idx_cart_user_product,unique;not null"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID                 string          `gorm:"primaryKey;size:64;not null"`
	UserID             string          `gorm:"size:64;index;not null"`
	Status             string          `gorm:"size:32;index;not null"` // pending, processing, shipped, delivered
	TotalPrice         decimal.Decimal `gorm:"type:numeric;not null"`
	UserTypeAtPurchase string          `gorm:"size:32;not null"`
	ShippingAddress    string          `gorm:"not null"`
	PaymentMethod      string          `gorm:"size:32;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.id
	OrderID string `gorm:"size:64;index;not null"`
	// FK → product.id
	ProductID       string          `gorm:"size:64;index;not null"`
	Name            string          `gorm:"size:128;not null"`
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt       time.Time
}
