package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsmarket/internal/model"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func screenPricing() *model.Pricing {
	return &model.Pricing{
		AdminPrice:       dec(50),
		VIPCustomerPrice: dec(80),
		CustomerPrice:    dec(100),
	}
}

func TestResolveSelectsTierColumn(t *testing.T) {
	p := screenPricing()

	assert.True(t, dec(50).Equal(Resolve(model.TierAdmin, p)))
	assert.True(t, dec(80).Equal(Resolve(model.TierVIPCustomer, p)))
	assert.True(t, dec(100).Equal(Resolve(model.TierCustomer, p)))
	assert.True(t, dec(100).Equal(Resolve(model.TierAnonymous, p)))
	assert.True(t, dec(100).Equal(Resolve(model.Tier("garbage"), p)))
}

func TestResolveNilPricing(t *testing.T) {
	for _, tier := range []model.Tier{model.TierAdmin, model.TierVIPCustomer, model.TierCustomer, model.TierAnonymous} {
		assert.True(t, Resolve(tier, nil).IsZero(), "tier %s", tier)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	p := screenPricing()
	first := Resolve(model.TierVIPCustomer, p)
	for i := 0; i < 100; i++ {
		require.True(t, first.Equal(Resolve(model.TierVIPCustomer, p)))
	}
}

func TestTotalEmptyCart(t *testing.T) {
	total, lines := Total(model.TierCustomer, nil)
	assert.True(t, total.IsZero())
	assert.Empty(t, lines)
}

func TestTotalSumsExtensions(t *testing.T) {
	items := []model.CartItem{
		{Product: &model.Product{Name: "LCD", Pricing: screenPricing()}, Quantity: 2},
		{Product: &model.Product{Name: "Battery", Pricing: &model.Pricing{
			AdminPrice:       dec(10),
			VIPCustomerPrice: dec(15),
			CustomerPrice:    dec(20),
		}}, Quantity: 3},
	}

	total, lines := Total(model.TierCustomer, items)
	require.Len(t, lines, 2)
	assert.True(t, dec(200).Equal(lines[0].Extension))
	assert.True(t, dec(60).Equal(lines[1].Extension))
	assert.True(t, dec(260).Equal(total))

	vipTotal, _ := Total(model.TierVIPCustomer, items)
	assert.True(t, dec(205).Equal(vipTotal))
}

func TestTotalCommutative(t *testing.T) {
	a := model.CartItem{Product: &model.Product{Pricing: screenPricing()}, Quantity: 1}
	b := model.CartItem{Product: &model.Product{Pricing: &model.Pricing{CustomerPrice: dec(7)}}, Quantity: 4}
	c := model.CartItem{Quantity: 9} // unresolved product

	forward, _ := Total(model.TierCustomer, []model.CartItem{a, b, c})
	backward, _ := Total(model.TierCustomer, []model.CartItem{c, b, a})
	assert.True(t, forward.Equal(backward))
}

func TestTotalMissingProductPricesAsZero(t *testing.T) {
	items := []model.CartItem{
		{Product: nil, Quantity: 5},
		{Product: &model.Product{Pricing: screenPricing()}, Quantity: 1},
	}

	total, lines := Total(model.TierCustomer, items)
	assert.True(t, dec(100).Equal(total))
	assert.True(t, lines[0].UnitPrice.IsZero())
	assert.Equal(t, 5, lines[0].Item.Quantity)
}

func TestTotalDecimalAccumulation(t *testing.T) {
	cents := &model.Pricing{CustomerPrice: decimal.RequireFromString("0.10")}
	items := make([]model.CartItem, 0, 3)
	for i := 0; i < 3; i++ {
		items = append(items, model.CartItem{Product: &model.Product{Pricing: cents}, Quantity: 1})
	}

	total, _ := Total(model.TierCustomer, items)
	assert.Equal(t, "0.30", total.StringFixed(2))
}

func TestPotentialProfit(t *testing.T) {
	products := []*model.Product{
		{StockQuantity: 4, Pricing: screenPricing()}, // (100-50)*4
		{StockQuantity: 10},                          // no pricing, skipped
		nil,
	}
	assert.True(t, dec(200).Equal(PotentialProfit(products)))
}
