package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sehatsathi/inventory-api/internal/api/metrics"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
)

type ApprovalHandler struct {
	service ports.ApprovalService
}

func NewApprovalHandler(service ports.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

// Pending lists pharmacies awaiting approval, oldest first.
//
// @Summary      List pending pharmacies
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   identityResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/users/pending [get]
func (h *ApprovalHandler) Pending(c echo.Context) error {
	claims, err := actor(c)
	if err != nil {
		return err
	}

	pending, err := h.service.ListPending(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	resp := make([]identityResponse, 0, len(pending))
	for _, p := range pending {
		resp = append(resp, toIdentityResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}

// Approve marks an identity approved. Approving twice is not an error.
//
// @Summary      Approve a pharmacy
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Identity ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id}/approve [post]
func (h *ApprovalHandler) Approve(c echo.Context) error {
	claims, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.service.Approve(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	metrics.ApprovalsTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "User approved successfully"})
}
