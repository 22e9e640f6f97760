package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

// Allow rejects requests whose role may never perform action. Conditions
// that depend on stored state, such as approval, are checked by the service.
func Allow(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !domain.RoleMayPerform(claims.Role, action) {
				return domain.ErrAccessDenied
			}
			return next(c)
		}
	}
}
