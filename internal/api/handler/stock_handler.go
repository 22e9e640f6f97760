package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sehatsathi/inventory-api/internal/api/metrics"
	"github.com/sehatsathi/inventory-api/internal/core/domain"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	service ports.StockService
}

func NewStockHandler(service ports.StockService) *StockHandler {
	return &StockHandler{service: service}
}

// List returns the caller's own stock rows.
//
// @Summary      List own stock
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   stockEntryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/pharmacy/stocks [get]
func (h *StockHandler) List(c echo.Context) error {
	claims, err := actor(c)
	if err != nil {
		return err
	}

	entries, err := h.service.ListOwn(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	resp := make([]stockEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toStockEntryResponse(e))
	}
	return c.JSON(http.StatusOK, resp)
}

// Add appends a stock row. Only approved pharmacies may write.
//
// @Summary      Add a stock entry
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      addStockRequest  true   "Stock entry"
// @Success      201              {object}  addStockResponse
// @Success      200              {object}  addStockResponse  "Replayed idempotent request"
// @Failure      403              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /api/pharmacy/stocks [post]
func (h *StockHandler) Add(c echo.Context) error {
	claims, err := actor(c)
	if err != nil {
		return err
	}

	var req addStockRequest
	if err := bindAndValidate(c, &req, domain.ErrInvalidEntry); err != nil {
		return err
	}

	key := c.Request().Header.Get(headerIdempotencyKey)
	result, err := h.service.Add(c.Request().Context(), claims, toAddStockInput(req, key))
	if err != nil {
		return err
	}

	if result.Replayed {
		metrics.StockEntriesTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, addStockResponse{Message: "Stock already added", ID: result.EntryID, Replayed: true})
	}
	metrics.StockEntriesTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, addStockResponse{Message: "Stock added successfully", ID: result.EntryID})
}

// ListAll returns every row owned by an approved pharmacy.
//
// @Summary      List all approved stock
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ownedStockResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/all-stocks [get]
func (h *StockHandler) ListAll(c echo.Context) error {
	claims, err := actor(c)
	if err != nil {
		return err
	}

	rows, err := h.service.ListAllApproved(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	resp := make([]ownedStockResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, toOwnedStockResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}
