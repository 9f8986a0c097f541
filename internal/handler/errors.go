package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"partsmarket/internal/repository"
	"partsmarket/internal/service"
)

// httpError maps service errors onto the API's uniform {message}
// failure body via echo's HTTPError.
func httpError(err error) error {
	var stockErr *service.StockError
	switch {
	case errors.As(err, &stockErr):
		return echo.NewHTTPError(http.StatusConflict, stockErr.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotAdmin):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrBadVIPCode),
		errors.Is(err, repository.ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
