package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"partsmarket/internal/dto"
	"partsmarket/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userService.List(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) PromoteVIP(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PromoteVIPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.userService.PromoteVIP(ctx, c.Param("id"), req.SpecialClientCode)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
