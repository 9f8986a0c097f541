package store

import (
	"context"

	"partsmarket/internal/client"
	"partsmarket/internal/model"
)

// CartStore holds the account's cart snapshot. Mutations are not
// optimistic: the snapshot only changes when the server answers with
// the authoritative replacement cart.
type CartStore struct {
	api  client.MarketClient
	cart *resource[*model.Cart]
}

func NewCartStore(api client.MarketClient) *CartStore {
	return &CartStore{api: api, cart: newResource[*model.Cart]()}
}

func (s *CartStore) Cart() View[*model.Cart]  { return s.cart.view() }
func (s *CartStore) Changed() <-chan struct{} { return s.cart.changedCh() }

func (s *CartStore) Fetch(ctx context.Context) <-chan struct{} {
	seq := s.cart.beginFetch(false)
	return s.dispatch(seq, func() (*model.Cart, error) {
		return s.api.GetCart(ctx)
	})
}

func (s *CartStore) Add(ctx context.Context, productID string, quantity int) <-chan struct{} {
	seq := s.cart.beginMutate()
	return s.dispatch(seq, func() (*model.Cart, error) {
		return s.api.AddToCart(ctx, productID, quantity)
	})
}

func (s *CartStore) UpdateItem(ctx context.Context, productID string, quantity int) <-chan struct{} {
	seq := s.cart.beginMutate()
	return s.dispatch(seq, func() (*model.Cart, error) {
		return s.api.UpdateCartItem(ctx, productID, quantity)
	})
}

func (s *CartStore) RemoveItem(ctx context.Context, productID string) <-chan struct{} {
	seq := s.cart.beginMutate()
	return s.dispatch(seq, func() (*model.Cart, error) {
		return s.api.RemoveCartItem(ctx, productID)
	})
}

// Reset drops the snapshot (logout: the next account must not see the
// previous account's cart).
func (s *CartStore) Reset() { s.cart.reset() }

func (s *CartStore) dispatch(seq uint64, call func() (*model.Cart, error)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		cart, err := call()
		if err != nil {
			s.cart.fail(seq, err.Error())
			return
		}
		s.cart.succeed(seq, cart)
	}()
	return done
}
