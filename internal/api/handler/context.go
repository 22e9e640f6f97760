package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sehatsathi/inventory-api/internal/api/middleware"
	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

// actor extracts the claims injected by the Auth middleware. Their absence
// means the route was registered without Auth.
func actor(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
// Validation failures are reported as invalid, the kind chosen by the caller.
func bindAndValidate(c echo.Context, req any, invalid error) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", invalid, err)
	}
	return nil
}
