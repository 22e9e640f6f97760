package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sehatsathi/inventory-api/internal/api/metrics"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Dashboard returns the aggregated view, computed on every call.
//
// @Summary      Government dashboard
// @Tags         government
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/government/dashboard [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	claims, err := actor(c)
	if err != nil {
		return err
	}

	start := time.Now()
	dash, err := h.service.Build(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	metrics.DashboardBuildDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, toDashboardResponse(dash))
}

// Analytics returns the last recorded counters snapshot.
//
// @Summary      Latest analytics snapshot
// @Tags         government
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  snapshotResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/government/analytics [get]
func (h *DashboardHandler) Analytics(c echo.Context) error {
	claims, err := actor(c)
	if err != nil {
		return err
	}

	snap, err := h.service.Snapshot(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}
