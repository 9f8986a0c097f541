package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotAdmin           = errors.New("account is not an admin")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrBadVIPCode         = errors.New("invalid special client code")
	ErrMissingField       = errors.New("missing required field")
)

// StockError blocks an order: the named product cannot cover the
// requested quantity. The message matches what the storefront shows.
type StockError struct {
	ProductName string
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Available: %d", e.ProductName, e.Available)
}
