package http

import (
	"net/http"
	"strconv"

	"amerilend-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

// AdminHandler is the authenticated JSON counterpart to the email-action
// links. Routes are mounted behind AdminKeyMiddleware.
type AdminHandler struct{ uc *application.Usecase }

func NewAdminHandler(uc *application.Usecase) *AdminHandler { return &AdminHandler{uc: uc} }

type adminApproveReq struct {
	ApprovedCents *int64 `json:"approved_amount_cents" validate:"omitempty,gt=0"`
	Notes         string `json:"notes"`
}

type adminRejectReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *AdminHandler) Approve(c echo.Context) error {
	id := pathID(c, "application_id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id path param"})
	}
	var req adminApproveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	snap, err := h.uc.Approve(c.Request().Context(), application.ApproveInput{
		ApplicationID: id,
		ApprovedCents: req.ApprovedCents,
		Notes:         req.Notes,
		ActorID:       adminActorID(c),
		Source:        "admin_api",
	})
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *AdminHandler) Reject(c echo.Context) error {
	id := pathID(c, "application_id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id path param"})
	}
	var req adminRejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	snap, err := h.uc.Reject(c.Request().Context(), application.RejectInput{
		ApplicationID: id,
		Reason:        req.Reason,
		ActorID:       adminActorID(c),
		Source:        "admin_api",
	})
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *AdminHandler) Review(c echo.Context) error {
	id := pathID(c, "application_id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id path param"})
	}
	snap, err := h.uc.MarkUnderReview(c.Request().Context(), id, adminActorID(c))
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *AdminHandler) Disburse(c echo.Context) error {
	id := pathID(c, "application_id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id path param"})
	}
	snap, err := h.uc.Disburse(c.Request().Context(), id, adminActorID(c))
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// adminActorID identifies the acting admin for the audit trail. The shared
// key carries no identity, so callers pass theirs in a header; absent or
// malformed reads as 0, matching the email-action actor.
func adminActorID(c echo.Context) uint64 {
	v, err := strconv.ParseUint(c.Request().Header.Get("X-Admin-Id"), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
