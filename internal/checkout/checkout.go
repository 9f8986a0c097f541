// Package checkout drives the order submission flow: Editing ->
// Submitting -> {Redirected | Blocked}. Stock is validated against the
// current cart snapshot before anything is sent; either the whole cart
// submits or nothing does.
package checkout

import (
	"context"
	"fmt"
	"sync"

	"partsmarket/internal/dto"
	"partsmarket/internal/store"
)

type State string

const (
	Editing    State = "editing"
	Submitting State = "submitting"
	Redirected State = "redirected"
	Blocked    State = "blocked"
)

type Flow struct {
	products *store.ProductsStore
	cart     *store.CartStore
	orders   *store.OrdersStore

	mu      sync.Mutex
	state   State
	message string
}

func NewFlow(products *store.ProductsStore, cart *store.CartStore, orders *store.OrdersStore) *Flow {
	return &Flow{
		products: products,
		cart:     cart,
		orders:   orders,
		state:    Editing,
	}
}

// State returns the flow state and the user-facing message (set when
// Blocked, or after a failed submission).
func (f *Flow) State() (State, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.message
}

func (f *Flow) set(state State, message string) {
	f.mu.Lock()
	f.state = state
	f.message = message
	f.mu.Unlock()
}

// Reset returns a settled flow to Editing so the user can retry.
func (f *Flow) Reset() { f.set(Editing, "") }

// Submit runs the stock guard and, if it passes, creates the order. On
// success the catalog and cart are re-fetched so decremented stock
// shows up, and the flow lands in Redirected (the view navigates to
// order history). On request failure the flow returns to Editing. The
// returned channel delivers the settled state and closes.
func (f *Flow) Submit(ctx context.Context, shippingAddress, paymentMethod string) <-chan State {
	result := make(chan State, 1)

	items := f.cart.Cart().Data
	var lines int
	if items != nil {
		lines = len(items.Products)
	}
	if lines == 0 {
		f.set(Blocked, "cart is empty")
		result <- Blocked
		close(result)
		return result
	}

	// entry guard: every line must be in stock, first shortfall blocks
	for _, item := range items.Products {
		name := "an item"
		available := 0
		if item.Product != nil {
			if item.Product.Name != "" {
				name = item.Product.Name
			}
			available = item.Product.StockQuantity
		}
		if available < item.Quantity {
			f.set(Blocked, fmt.Sprintf("Not enough stock for %s. Available: %d", name, available))
			result <- Blocked
			close(result)
			return result
		}
	}

	f.set(Submitting, "")
	req := &dto.CreateOrderRequest{ShippingAddress: shippingAddress, PaymentMethod: paymentMethod}

	go func() {
		defer close(result)
		if err := <-f.orders.Create(ctx, req); err != nil {
			f.set(Editing, err.Error())
			result <- Editing
			return
		}
		// stock changed server-side, refresh what the views render from
		f.products.FetchAll(ctx)
		f.cart.Fetch(ctx)
		f.set(Redirected, "")
		result <- Redirected
	}()
	return result
}
