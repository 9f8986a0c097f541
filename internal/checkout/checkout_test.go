package checkout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsmarket/internal/client"
	"partsmarket/internal/dto"
	"partsmarket/internal/model"
	"partsmarket/internal/store"
)

type stubClient struct {
	client.MarketClient

	cart         *model.Cart
	createErr    error
	orderCreates atomic.Int32
	catalogFetch atomic.Int32
	cartFetches  atomic.Int32
	lastOrderReq *dto.CreateOrderRequest
}

func (s *stubClient) GetCart(context.Context) (*model.Cart, error) {
	s.cartFetches.Add(1)
	return s.cart, nil
}

func (s *stubClient) ListProducts(context.Context) ([]*model.Product, error) {
	s.catalogFetch.Add(1)
	return nil, nil
}

func (s *stubClient) CreateOrder(_ context.Context, req *dto.CreateOrderRequest) (*model.Order, error) {
	s.orderCreates.Add(1)
	s.lastOrderReq = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &model.Order{ID: "o1", Status: model.OrderPending}, nil
}

func line(name string, stock, qty int) model.CartItem {
	return model.CartItem{
		Product: &model.Product{
			ID:            name,
			Name:          name,
			StockQuantity: stock,
			Pricing:       &model.Pricing{CustomerPrice: decimal.NewFromInt(10)},
		},
		Quantity: qty,
	}
}

func flowWith(t *testing.T, api *stubClient) *Flow {
	t.Helper()
	products := store.NewProductsStore(api)
	cart := store.NewCartStore(api)
	orders := store.NewOrdersStore(api)
	<-cart.Fetch(context.Background())
	return NewFlow(products, cart, orders)
}

func TestSubmitBlockedOnInsufficientStock(t *testing.T) {
	api := &stubClient{cart: &model.Cart{Products: []model.CartItem{
		line("Galaxy S21 Battery", 5, 1),
		line("iPhone 13 OLED Screen", 2, 3),
	}}}
	flow := flowWith(t, api)

	result := <-flow.Submit(context.Background(), "5 Av Habib Bourguiba", model.PaymentCashOnDelivery)

	assert.Equal(t, Blocked, result)
	state, msg := flow.State()
	assert.Equal(t, Blocked, state)
	assert.Equal(t, "Not enough stock for iPhone 13 OLED Screen. Available: 2", msg)
	assert.Equal(t, int32(0), api.orderCreates.Load(), "no partial submission")
}

func TestSubmitBlockedOnUnresolvedProduct(t *testing.T) {
	api := &stubClient{cart: &model.Cart{Products: []model.CartItem{
		{Product: nil, Quantity: 1},
	}}}
	flow := flowWith(t, api)

	result := <-flow.Submit(context.Background(), "addr", model.PaymentCashOnDelivery)

	assert.Equal(t, Blocked, result)
	_, msg := flow.State()
	assert.Equal(t, "Not enough stock for an item. Available: 0", msg)
}

func TestSubmitEmptyCartBlocked(t *testing.T) {
	api := &stubClient{cart: &model.Cart{}}
	flow := flowWith(t, api)

	result := <-flow.Submit(context.Background(), "addr", model.PaymentCashOnDelivery)
	assert.Equal(t, Blocked, result)
	assert.Equal(t, int32(0), api.orderCreates.Load())
}

func TestSubmitSuccessRedirectsAndRefreshes(t *testing.T) {
	api := &stubClient{cart: &model.Cart{Products: []model.CartItem{line("usb-board", 10, 2)}}}
	flow := flowWith(t, api)
	fetchesBefore := api.cartFetches.Load()

	result := <-flow.Submit(context.Background(), "7 Rue de Rome, Sfax", model.PaymentBankTransfer)

	assert.Equal(t, Redirected, result)
	require.NotNil(t, api.lastOrderReq)
	assert.Equal(t, "7 Rue de Rome, Sfax", api.lastOrderReq.ShippingAddress)
	assert.Equal(t, model.PaymentBankTransfer, api.lastOrderReq.PaymentMethod)

	// catalog and cart re-fetch so decremented stock shows up
	deadline := time.After(time.Second)
	for api.catalogFetch.Load() == 0 || api.cartFetches.Load() == fetchesBefore {
		select {
		case <-deadline:
			t.Fatal("expected catalog and cart refresh after successful submit")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSubmitFailureReturnsToEditing(t *testing.T) {
	api := &stubClient{
		cart:      &model.Cart{Products: []model.CartItem{line("usb-board", 10, 2)}},
		createErr: errors.New("marketplace api error 500: down"),
	}
	flow := flowWith(t, api)

	result := <-flow.Submit(context.Background(), "addr", model.PaymentCashOnDelivery)

	assert.Equal(t, Editing, result)
	state, msg := flow.State()
	assert.Equal(t, Editing, state)
	assert.Contains(t, msg, "down")
	assert.Equal(t, int32(0), api.catalogFetch.Load(), "no refresh on failure")
}
