package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"partsmarket/internal/auth"
	"partsmarket/internal/model"
)

const (
	ContextUserID   = "user_id"
	ContextUserType = "user_type"
)

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Auth requires a valid bearer token and stores the account identity in
// the request context.
func Auth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			claims, err := tokens.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextUserType, claims.UserType)
			return next(c)
		}
	}
}

// OptionalAuth resolves the tier when a token is present but lets
// anonymous requests through; the catalog is browsable signed out.
func OptionalAuth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" {
				if claims, err := tokens.Verify(token); err == nil {
					c.Set(ContextUserID, claims.Subject)
					c.Set(ContextUserType, claims.UserType)
				}
			}
			return next(c)
		}
	}
}

// RequireAdmin runs after Auth; non-admin tiers are turned away.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if TierFrom(c) != model.TierAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

func UserIDFrom(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}

func TierFrom(c echo.Context) model.Tier {
	t, _ := c.Get(ContextUserType).(string)
	return model.ParseTier(t)
}
