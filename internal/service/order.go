package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"partsmarket/internal/dto"
	"partsmarket/internal/entity"
	"partsmarket/internal/model"
	"partsmarket/internal/pricing"
	"partsmarket/internal/repository"
)

type OrderService interface {
	Create(ctx context.Context, userID string, tier model.Tier, req *dto.CreateOrderRequest) (*model.Order, error)
	List(ctx context.Context, userID string, tier model.Tier) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	Analytics(ctx context.Context) (*model.AnalyticsSummary, error)
}

type orderServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Create turns the account's cart into an order: per-line prices are
// frozen at the tier's current column, stock is decremented and the
// cart cleared, all in one transaction. Any line short on stock aborts
// the whole order.
func (s *orderServiceImpl) Create(ctx context.Context, userID string, tier model.Tier, req *dto.CreateOrderRequest) (*model.Order, error) {
	if req.ShippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping address", ErrMissingField)
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.PaymentCashOnDelivery
	}
	if paymentMethod != model.PaymentCashOnDelivery && paymentMethod != model.PaymentBankTransfer {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrMissingField, paymentMethod)
	}

	items, err := s.cartRepo.ItemsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// stock guard: first shortfall rejects the whole submission
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, &StockError{ProductName: "an item", Available: 0}
		}
		if product.StockQuantity < item.Quantity {
			return nil, &StockError{ProductName: product.Name, Available: product.StockQuantity}
		}
	}

	order := &entity.Order{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Status:             string(model.OrderPending),
		UserTypeAtPurchase: string(tier),
		ShippingAddress:    req.ShippingAddress,
		PaymentMethod:      paymentMethod,
	}

	total := decimal.Zero
	orderItems := make([]*entity.OrderItem, 0, len(items))
	for _, item := range items {
		product := byID[item.ProductID]
		unit := pricing.Resolve(tier, &model.Pricing{
			AdminPrice:       product.AdminPrice,
			VIPCustomerPrice: product.VIPCustomerPrice,
			CustomerPrice:    product.CustomerPrice,
		})
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, &entity.OrderItem{
			OrderID:         order.ID,
			ProductID:       product.ID,
			Name:            product.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: unit,
		})
	}
	order.TotalPrice = total

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}
		for _, item := range items {
			if err := s.productRepo.DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.cartRepo.ClearForUser(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	return toOrder(order, orderItems), nil
}

// List returns the account's orders newest first; admins see everyone's.
func (s *orderServiceImpl) List(ctx context.Context, userID string, tier model.Tier) ([]*model.Order, error) {
	var (
		orders []*entity.Order
		err    error
	)
	if tier == model.TierAdmin {
		orders, err = s.orderRepo.ListAll(ctx)
	} else {
		orders, err = s.orderRepo.ListForUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return []*model.Order{}, nil
	}

	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	items, err := s.orderRepo.GetOrderItems(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	itemsByOrder := make(map[string][]*entity.OrderItem)
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	out := make([]*model.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o, itemsByOrder[o.ID]))
	}
	return out, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.UpdateStatus(ctx, orderID, string(status))
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.GetOrderItems(ctx, []string{orderID})
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	return toOrder(order, items), nil
}

func (s *orderServiceImpl) Analytics(ctx context.Context) (*model.AnalyticsSummary, error) {
	raw, err := s.orderRepo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("order summary: %w", err)
	}

	summary := &model.AnalyticsSummary{
		TotalSales:  raw.TotalSales,
		OrdersCount: raw.OrdersCount,
		ByStatus:    make(map[model.OrderStatus]int, len(model.OrderStatuses)),
	}
	for _, status := range model.OrderStatuses {
		summary.ByStatus[status] = raw.ByStatus[string(status)]
	}
	return summary, nil
}
