package store

import (
	"context"

	"partsmarket/internal/client"
	"partsmarket/internal/model"
)

// ProductsStore holds two snapshots: the catalog list and the single
// product currently being viewed.
type ProductsStore struct {
	api     client.MarketClient
	list    *resource[[]*model.Product]
	current *resource[*model.Product]
}

func NewProductsStore(api client.MarketClient) *ProductsStore {
	return &ProductsStore{
		api:     api,
		list:    newResource[[]*model.Product](),
		current: newResource[*model.Product](),
	}
}

func (s *ProductsStore) List() View[[]*model.Product]    { return s.list.view() }
func (s *ProductsStore) Current() View[*model.Product]   { return s.current.view() }
func (s *ProductsStore) ListChanged() <-chan struct{}    { return s.list.changedCh() }
func (s *ProductsStore) CurrentChanged() <-chan struct{} { return s.current.changedCh() }

// FetchAll dispatches a catalog fetch. The returned channel closes when
// this intent settles; callers may ignore it.
func (s *ProductsStore) FetchAll(ctx context.Context) <-chan struct{} {
	seq := s.list.beginFetch(false)
	done := make(chan struct{})
	go func() {
		defer close(done)
		products, err := s.api.ListProducts(ctx)
		if err != nil {
			s.list.fail(seq, err.Error())
			return
		}
		s.list.succeed(seq, products)
	}()
	return done
}

// FetchByID clears the previously viewed product as soon as the fetch
// starts so a stale detail page never shows through.
func (s *ProductsStore) FetchByID(ctx context.Context, productID string) <-chan struct{} {
	seq := s.current.beginFetch(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		product, err := s.api.GetProduct(ctx, productID)
		if err != nil {
			s.current.fail(seq, err.Error())
			return
		}
		s.current.succeed(seq, product)
	}()
	return done
}
