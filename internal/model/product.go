package model

import "github.com/shopspring/decimal"

// Pricing is the three-column price table attached to a product, one
// column per tier. Zero values participate in sums as 0.
type Pricing struct {
	AdminPrice       decimal.Decimal `json:"admin_price"`
	VIPCustomerPrice decimal.Decimal `json:"vip_customer_price"`
	CustomerPrice    decimal.Decimal `json:"customer_price"`
}

type Product struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Images        []string `json:"images,omitempty"`
	StockQuantity int      `json:"stockQuantity"`
	Pricing       *Pricing `json:"pricing,omitempty"`
	// Price is resolved by the server for the requesting account's tier.
	// When Pricing is present it must match the tier's column; a mismatch
	// is a server-side data bug, not something the client repairs.
	Price decimal.Decimal `json:"price"`
}
