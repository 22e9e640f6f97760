package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sehatsathi/inventory-api/internal/api/metrics"
	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and a stable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<CODE>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: statusCode(he.Code)}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{"Invalid credentials", "INVALID_CREDENTIALS"}
	case errors.Is(err, domain.ErrNotApproved):
		return http.StatusForbidden, errorResponse{"Account pending approval", "NOT_APPROVED"}
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{"Token expired", "TOKEN_EXPIRED"}
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, errorResponse{"Invalid token", "TOKEN_INVALID"}
	case errors.Is(err, domain.ErrAccessDenied):
		metrics.PolicyDenialsTotal.WithLabelValues("access_denied").Inc()
		return http.StatusForbidden, errorResponse{"Access denied", "ACCESS_DENIED"}
	case errors.Is(err, domain.ErrApprovalRequired):
		metrics.PolicyDenialsTotal.WithLabelValues("approval_required").Inc()
		return http.StatusForbidden, errorResponse{"Pharmacy account must be approved by government before adding medicines", "APPROVAL_REQUIRED"}
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return http.StatusConflict, errorResponse{"User already exists", "DUPLICATE_IDENTITY"}
	case errors.Is(err, domain.ErrInvalidEntry):
		return http.StatusUnprocessableEntity, errorResponse{err.Error(), "INVALID_ENTRY"}
	case errors.Is(err, domain.ErrInvalidIdentity):
		return http.StatusUnprocessableEntity, errorResponse{err.Error(), "INVALID_IDENTITY"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{"Not found", "NOT_FOUND"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{"internal server error", "INTERNAL"}
}

// statusCode turns an HTTP status into an upper-snake code, e.g. 404 -> NOT_FOUND.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
