package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"partsmarket/internal/dto"
	"partsmarket/internal/entity"
	"partsmarket/internal/model"
	"partsmarket/internal/repository"
)

type CatalogService interface {
	List(ctx context.Context, tier model.Tier) ([]*model.Product, error)
	Get(ctx context.Context, tier model.Tier, productID string) (*model.Product, error)
	Create(ctx context.Context, tier model.Tier, payload *dto.ProductPayload) (*model.Product, error)
	Update(ctx context.Context, tier model.Tier, productID string, payload *dto.ProductPayload) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
	}
}

func (s *catalogServiceImpl) List(ctx context.Context, tier model.Tier) ([]*model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]*model.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toProduct(tier, p))
	}
	return out, nil
}

func (s *catalogServiceImpl) Get(ctx context.Context, tier model.Tier, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProduct(tier, product), nil
}

func (s *catalogServiceImpl) Create(ctx context.Context, tier model.Tier, payload *dto.ProductPayload) (*model.Product, error) {
	if payload.Name == "" {
		return nil, ErrMissingField
	}

	product := payloadToEntity(uuid.NewString(), payload)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return toProduct(tier, product), nil
}

func (s *catalogServiceImpl) Update(ctx context.Context, tier model.Tier, productID string, payload *dto.ProductPayload) (*model.Product, error) {
	product := payloadToEntity(productID, payload)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	updated, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProduct(tier, updated), nil
}

func (s *catalogServiceImpl) Delete(ctx context.Context, productID string) error {
	return s.productRepo.Delete(ctx, productID)
}

func payloadToEntity(id string, payload *dto.ProductPayload) *entity.Product {
	product := &entity.Product{
		ID:            id,
		Name:          payload.Name,
		Category:      payload.Category,
		Description:   payload.Description,
		Images:        payload.Images,
		StockQuantity: payload.StockQuantity,
	}
	if payload.Pricing != nil {
		product.AdminPrice = payload.Pricing.AdminPrice
		product.VIPCustomerPrice = payload.Pricing.VIPCustomerPrice
		product.CustomerPrice = payload.Pricing.CustomerPrice
	}
	return product
}
