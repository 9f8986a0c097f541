package dto

import (
	"partsmarket/internal/model"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register, login and admin-login.
type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest carries only the quantity; the product id rides
// in the URL.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type ProductPayload struct {
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Description   string         `json:"description"`
	Images        []string       `json:"images,omitempty"`
	StockQuantity int            `json:"stockQuantity"`
	Pricing       *model.Pricing `json:"pricing"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

type PromoteVIPRequest struct {
	SpecialClientCode string `json:"specialClientCode"`
}

// ErrorResponse is the API's uniform failure body.
type ErrorResponse struct {
	Message string `json:"message"`
}
