// Package pricing holds the tier price resolution and cart totalling
// math shared by every view. Both functions are pure: same inputs, same
// outputs, no state.
package pricing

import (
	"github.com/shopspring/decimal"

	"partsmarket/internal/model"
)

// Resolve returns the unit price the given tier pays for a product with
// the given pricing record. Admins pay the admin column, VIP customers
// the VIP column, and every other tier (customer, anonymous, unknown)
// the customer column. A nil record resolves to zero.
func Resolve(tier model.Tier, p *model.Pricing) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	switch tier {
	case model.TierAdmin:
		return p.AdminPrice
	case model.TierVIPCustomer:
		return p.VIPCustomerPrice
	case model.TierCustomer, model.TierAnonymous:
		return p.CustomerPrice
	default:
		return p.CustomerPrice
	}
}

// Line is one priced cart line: the extension is unit price times
// quantity for the resolving tier.
type Line struct {
	Item      model.CartItem
	UnitPrice decimal.Decimal
	Extension decimal.Decimal
}

// Total prices every cart line for the tier and sums the extensions.
// Lines whose product is missing price as zero but keep their quantity.
// An empty cart totals zero. Line order does not affect the total.
func Total(tier model.Tier, items []model.CartItem) (decimal.Decimal, []Line) {
	total := decimal.Zero
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		var unit decimal.Decimal
		if item.Product != nil {
			unit = Resolve(tier, item.Product.Pricing)
		} else {
			unit = decimal.Zero
		}
		ext := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(ext)
		lines = append(lines, Line{Item: item, UnitPrice: unit, Extension: ext})
	}
	return total, lines
}

// PotentialProfit is the admin dashboard metric: margin between customer
// and admin price across remaining stock, summed over the catalog.
func PotentialProfit(products []*model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		if p == nil || p.Pricing == nil {
			continue
		}
		margin := p.Pricing.CustomerPrice.Sub(p.Pricing.AdminPrice)
		total = total.Add(margin.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	return total
}
