package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"partsmarket/internal/dto"
	"partsmarket/internal/middleware"
	"partsmarket/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Get(ctx, middleware.UserIDFrom(c), middleware.TierFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cart, err := h.cartService.Add(ctx, middleware.UserIDFrom(c), middleware.TierFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cart, err := h.cartService.SetQuantity(ctx, middleware.UserIDFrom(c), middleware.TierFrom(c), c.Param("productId"), req.Quantity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Remove(ctx, middleware.UserIDFrom(c), middleware.TierFrom(c), c.Param("productId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}
