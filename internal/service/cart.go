package service

import (
	"context"
	"fmt"

	"partsmarket/internal/entity"
	"partsmarket/internal/model"
	"partsmarket/internal/repository"
)

type CartService interface {
	Get(ctx context.Context, userID string, tier model.Tier) (*model.Cart, error)
	Add(ctx context.Context, userID string, tier model.Tier, productID string, quantity int) (*model.Cart, error)
	SetQuantity(ctx context.Context, userID string, tier model.Tier, productID string, quantity int) (*model.Cart, error)
	Remove(ctx context.Context, userID string, tier model.Tier, productID string) (*model.Cart, error)
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get assembles the authoritative cart snapshot: one line per item with
// the catalog product resolved for the requesting tier. Lines whose
// product has been deleted keep their quantity with a nil product.
func (s *cartServiceImpl) Get(ctx context.Context, userID string, tier model.Tier) (*model.Cart, error) {
	items, err := s.cartRepo.ItemsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	var products []*entity.Product
	if len(productIDs) > 0 {
		products, err = s.productRepo.FindMany(ctx, productIDs)
		if err != nil {
			return nil, fmt.Errorf("load cart products: %w", err)
		}
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cart := &model.Cart{
		ID:       userID,
		UserID:   userID,
		Products: make([]model.CartItem, 0, len(items)),
	}
	for _, item := range items {
		line := model.CartItem{Quantity: item.Quantity}
		if p, ok := byID[item.ProductID]; ok {
			line.Product = toProduct(tier, p)
		}
		cart.Products = append(cart.Products, line)
	}
	return cart, nil
}

func (s *cartServiceImpl) Add(ctx context.Context, userID string, tier model.Tier, productID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrMissingField)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	err := s.cartRepo.AddItem(ctx, &entity.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return s.Get(ctx, userID, tier)
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, userID string, tier model.Tier, productID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrMissingField)
	}

	if err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, tier)
}

func (s *cartServiceImpl) Remove(ctx context.Context, userID string, tier model.Tier, productID string) (*model.Cart, error) {
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, tier)
}
