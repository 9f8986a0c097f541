package store

import (
	"context"

	"partsmarket/internal/client"
	"partsmarket/internal/dto"
	"partsmarket/internal/model"
)

// OrdersStore holds the account's order history, newest first.
type OrdersStore struct {
	api    client.MarketClient
	orders *resource[[]*model.Order]
}

func NewOrdersStore(api client.MarketClient) *OrdersStore {
	return &OrdersStore{api: api, orders: newResource[[]*model.Order]()}
}

func (s *OrdersStore) Orders() View[[]*model.Order] { return s.orders.view() }
func (s *OrdersStore) Changed() <-chan struct{}     { return s.orders.changedCh() }

func (s *OrdersStore) FetchAll(ctx context.Context) <-chan struct{} {
	seq := s.orders.beginFetch(false)
	done := make(chan struct{})
	go func() {
		defer close(done)
		orders, err := s.api.ListOrders(ctx)
		if err != nil {
			s.orders.fail(seq, err.Error())
			return
		}
		s.orders.succeed(seq, orders)
	}()
	return done
}

// Create submits the order and, on success, prepends the server's order
// to the history snapshot. The channel delivers this intent's outcome
// (nil on success) and then closes; checkout branches on it.
func (s *OrdersStore) Create(ctx context.Context, req *dto.CreateOrderRequest) <-chan error {
	seq := s.orders.beginFetch(false)
	done := make(chan error, 1)
	go func() {
		defer close(done)
		order, err := s.api.CreateOrder(ctx, req)
		if err != nil {
			s.orders.fail(seq, err.Error())
			done <- err
			return
		}
		s.orders.succeedWith(seq, func(old []*model.Order) []*model.Order {
			return append([]*model.Order{order}, old...)
		})
		done <- nil
	}()
	return done
}

func (s *OrdersStore) Reset() { s.orders.reset() }
