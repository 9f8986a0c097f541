package service

import (
	"partsmarket/internal/entity"
	"partsmarket/internal/model"
	"partsmarket/internal/pricing"
)

// toUser strips the password hash off the wire.
func toUser(u *entity.User) *model.User {
	return &model.User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		UserType: model.ParseTier(u.UserType),
	}
}

// toProduct builds the wire product with the price column already
// resolved for the requesting tier, alongside the full pricing record.
func toProduct(tier model.Tier, p *entity.Product) *model.Product {
	prc := &model.Pricing{
		AdminPrice:       p.AdminPrice,
		VIPCustomerPrice: p.VIPCustomerPrice,
		CustomerPrice:    p.CustomerPrice,
	}
	return &model.Product{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Description:   p.Description,
		Images:        p.Images,
		StockQuantity: p.StockQuantity,
		Pricing:       prc,
		Price:         pricing.Resolve(tier, prc),
	}
}

func toOrder(o *entity.Order, items []*entity.OrderItem) *model.Order {
	order := &model.Order{
		ID:                 o.ID,
		UserID:             o.UserID,
		TotalPrice:         o.TotalPrice,
		UserTypeAtPurchase: model.ParseTier(o.UserTypeAtPurchase),
		Status:             model.OrderStatus(o.Status),
		ShippingAddress:    o.ShippingAddress,
		PaymentMethod:      o.PaymentMethod,
		CreatedAt:          o.CreatedAt,
		Items:              make([]model.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return order
}
