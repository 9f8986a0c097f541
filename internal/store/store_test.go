package store

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
)

// stubClient overrides just the endpoints a test exercises; anything
// else panics through the embedded nil interface.
type stubClient struct {
	client.MarketClient

	listProducts func(ctx context.Context) ([]*model.Product, error)
	getProduct   func(ctx context.Context, id string) (*model.Product, error)
	getCart      func(ctx context.Context) (*model.Cart, error)
	updateItem   func(ctx context.Context, id string, qty int) (*model.Cart, error)
	createOrder  func(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error)
	listOrders   func(ctx context.Context) ([]*model.Order, error)
}

func (s *stubClient) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.listProducts(ctx)
}

func (s *stubClient) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return s.getProduct(ctx, id)
}

func (s *stubClient) GetCart(ctx context.Context) (*model.Cart, error) {
	return s.getCart(ctx)
}

func (s *stubClient) UpdateCartItem(ctx context.Context, id string, qty int) (*model.Cart, error) {
	return s.updateItem(ctx, id, qty)
}

func (s *stubClient) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error) {
	return s.createOrder(ctx, req)
}

func (s *stubClient) ListOrders(ctx context.Context) ([]*model.Order, error) {
	return s.listOrders(ctx)
}

func cartWith(productID string, qty int) *model.Cart {
	return &model.Cart{
		ID: "u1",
		Products: []model.CartItem{
			{Product: &model.Product{ID: productID, Name: productID}, Quantity: qty},
		},
	}
}

func TestFetchCartSuccess(t *testing.T) {
	api := &stubClient{
		getCart: func(context.Context) (*model.Cart, error) { return cartWith("p1", 2), nil },
	}
	s := NewCartStore(api)

	assert.Equal(t, Idle, s.Cart().Status)
	<-s.Fetch(context.Background())

	view := s.Cart()
	assert.Equal(t, Ready, view.Status)
	assert.Empty(t, view.Err)
	require.NotNil(t, view.Data)
	assert.Equal(t, "p1", view.Data.Products[0].Product.ID)
}

func TestFetchFailureRetainsPreviousSnapshot(t *testing.T) {
	var fail atomic.Bool
	api := &stubClient{
		getCart: func(context.Context) (*model.Cart, error) {
			if fail.Load() {
				return nil, errors.New("marketplace api error 500: boom")
			}
			return cartWith("p1", 2), nil
		},
	}
	s := NewCartStore(api)

	<-s.Fetch(context.Background())
	fail.Store(true)
	<-s.Fetch(context.Background())

	view := s.Cart()
	assert.Equal(t, Failed, view.Status)
	assert.Contains(t, view.Err, "boom")
	// last good cart still renders
	require.NotNil(t, view.Data)
	assert.Equal(t, "p1", view.Data.Products[0].Product.ID)
}

func TestFetchRetriableAfterFailure(t *testing.T) {
	var fail atomic.Bool
	api := &stubClient{
		getCart: func(context.Context) (*model.Cart, error) {
			if fail.Load() {
				return nil, errors.New("down")
			}
			return cartWith("p2", 1), nil
		},
	}
	s := NewCartStore(api)

	fail.Store(true)
	<-s.Fetch(context.Background())
	require.Equal(t, Failed, s.Cart().Status)

	fail.Store(false)
	<-s.Fetch(context.Background())
	view := s.Cart()
	assert.Equal(t, Ready, view.Status)
	assert.Empty(t, view.Err)
	assert.Equal(t, "p2", view.Data.Products[0].Product.ID)
}

func TestRepeatedFetchIsIdempotent(t *testing.T) {
	api := &stubClient{
		getCart: func(context.Context) (*model.Cart, error) { return cartWith("p1", 2), nil },
	}
	s := NewCartStore(api)

	<-s.Fetch(context.Background())
	first := s.Cart()
	<-s.Fetch(context.Background())
	second := s.Cart()

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Data, second.Data)
}

func TestMutationFailureKeepsSnapshotAndSetsError(t *testing.T) {
	api := &stubClient{
		getCart: func(context.Context) (*model.Cart, error) { return cartWith("p1", 2), nil },
		updateItem: func(context.Context, string, int) (*model.Cart, error) {
			return nil, errors.New("marketplace api error 400: quantity must be at least 1")
		},
	}
	s := NewCartStore(api)

	<-s.Fetch(context.Background())
	<-s.UpdateItem(context.Background(), "p1", 0)

	view := s.Cart()
	assert.Equal(t, Failed, view.Status)
	assert.Contains(t, view.Err, "quantity")
	assert.Equal(t, 2, view.Data.Products[0].Quantity) // not patched optimistically
}

func TestMutationSuccessReplacesSnapshotWholesale(t *testing.T) {
	api := &stubClient{
		getCart:    func(context.Context) (*model.Cart, error) { return cartWith("p1", 2), nil },
		updateItem: func(ctx context.Context, id string, qty int) (*model.Cart, error) { return cartWith(id, qty), nil },
	}
	s := NewCartStore(api)

	<-s.Fetch(context.Background())
	<-s.UpdateItem(context.Background(), "p1", 7)

	view := s.Cart()
	assert.Equal(t, Ready, view.Status)
	assert.Equal(t, 7, view.Data.Products[0].Quantity)
}

func TestFetchByIDClearsCurrentOnEnteringLoading(t *testing.T) {
	gate := make(chan struct{})
	api := &stubClient{
		getProduct: func(ctx context.Context, id string) (*model.Product, error) {
			<-gate
			return &model.Product{ID: id}, nil
		},
	}
	s := NewProductsStore(api)

	close(gate)
	<-s.FetchByID(context.Background(), "p1")
	require.NotNil(t, s.Current().Data)

	gate = make(chan struct{})
	api.getProduct = func(ctx context.Context, id string) (*model.Product, error) {
		<-gate
		return &model.Product{ID: id}, nil
	}
	done := s.FetchByID(context.Background(), "p2")

	// previous detail page must not show through while loading
	mid := s.Current()
	assert.Equal(t, Loading, mid.Status)
	assert.Nil(t, mid.Data)

	close(gate)
	<-done
	assert.Equal(t, "p2", s.Current().Data.ID)
}

func TestStaleResponseDiscarded(t *testing.T) {
	gate1 := make(chan struct{})
	var calls atomic.Int32
	api := &stubClient{
		listProducts: func(ctx context.Context) ([]*model.Product, error) {
			if calls.Add(1) == 1 {
				<-gate1 // first request parks until after the second lands
				return []*model.Product{{ID: "stale"}}, nil
			}
			return []*model.Product{{ID: "fresh"}}, nil
		},
	}
	s := NewProductsStore(api)

	done1 := s.FetchAll(context.Background())
	done2 := s.FetchAll(context.Background())
	<-done2
	require.Equal(t, "fresh", s.List().Data[0].ID)

	close(gate1)
	<-done1

	view := s.List()
	assert.Equal(t, Ready, view.Status)
	assert.Equal(t, "fresh", view.Data[0].ID, "older response must not overwrite the newer snapshot")
}

func TestCreateOrderPrependsToHistory(t *testing.T) {
	api := &stubClient{
		listOrders: func(context.Context) ([]*model.Order, error) {
			return []*model.Order{{ID: "old", TotalPrice: decimal.NewFromInt(10)}}, nil
		},
		createOrder: func(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error) {
			return &model.Order{ID: "new", ShippingAddress: req.ShippingAddress}, nil
		},
	}
	s := NewOrdersStore(api)

	<-s.FetchAll(context.Background())
	err := <-s.Create(context.Background(), &dto.CreateOrderRequest{ShippingAddress: "12 Rue de Marseille, Tunis"})
	require.NoError(t, err)

	view := s.Orders()
	require.Len(t, view.Data, 2)
	assert.Equal(t, "new", view.Data[0].ID)
	assert.Equal(t, "old", view.Data[1].ID)
}

func TestChangedChannelFires(t *testing.T) {
	api := &stubClient{
		getCart: func(context.Context) (*model.Cart, error) { return cartWith("p1", 1), nil },
	}
	s := NewCartStore(api)

	ch := s.Changed()
	<-s.Fetch(context.Background())

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected change notification after fetch")
	}
}
