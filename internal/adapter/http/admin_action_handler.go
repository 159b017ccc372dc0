package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	domain "amerilend-backend/internal/domain/application"
	"amerilend-backend/internal/token"
	"amerilend-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

// AdminActionHandler serves the one-click approve/reject links embedded in
// admin notification emails. Authorization is the HMAC token itself; there
// is no session.
type AdminActionHandler struct {
	tokens       *token.Service
	uc           *application.Usecase
	dashboardURL string
}

func NewAdminActionHandler(tokens *token.Service, uc *application.Usecase, dashboardURL string) *AdminActionHandler {
	return &AdminActionHandler{tokens: tokens, uc: uc, dashboardURL: dashboardURL}
}

func (h *AdminActionHandler) Approve(c echo.Context) error {
	claims, ok := h.tokens.Verify(c.Param("token"))
	if !ok || claims.Action != token.ActionApprove {
		return h.invalidLink(c)
	}
	snap, err := h.uc.Get(c.Request().Context(), claims.ApplicationID)
	if err != nil {
		return h.loadFailure(c, err)
	}
	switch snap.Status {
	case domain.StatusApproved:
		return c.HTML(http.StatusOK, renderResult(resultPage{
			Title:          "Already Approved",
			Message:        "This application was already approved. No further action was taken.",
			Success:        true,
			TrackingNumber: snap.TrackingNumber,
			DashboardURL:   h.dashboardURL,
		}))
	case domain.StatusPending, domain.StatusUnderReview:
		snap, err = h.uc.Approve(c.Request().Context(), application.ApproveInput{
			ApplicationID: claims.ApplicationID,
			Notes:         "Approved via email action",
			Source:        "email_action",
		})
		if err != nil {
			return c.HTML(http.StatusInternalServerError, renderResult(resultPage{
				Title:        "Something Went Wrong",
				Message:      "The approval could not be completed. Please retry from the admin dashboard.",
				DashboardURL: h.dashboardURL,
			}))
		}
		msg := fmt.Sprintf("The loan application for %s has been approved", snap.FullName)
		if snap.ApprovedCents != nil {
			msg = fmt.Sprintf("%s for %s", msg, formatUSD(*snap.ApprovedCents))
		}
		return c.HTML(http.StatusOK, renderResult(resultPage{
			Title:          "Application Approved",
			Message:        msg + ". The applicant has been notified by email.",
			Success:        true,
			TrackingNumber: snap.TrackingNumber,
			DashboardURL:   h.dashboardURL,
		}))
	default:
		return c.HTML(http.StatusConflict, renderResult(resultPage{
			Title:          "Cannot Approve",
			Message:        fmt.Sprintf("This application is currently %q and can no longer be approved from this link.", snap.Status),
			TrackingNumber: snap.TrackingNumber,
			DashboardURL:   h.dashboardURL,
		}))
	}
}

func (h *AdminActionHandler) RejectForm(c echo.Context) error {
	claims, ok := h.tokens.Verify(c.Param("token"))
	if !ok || claims.Action != token.ActionReject {
		return h.invalidLink(c)
	}
	snap, err := h.uc.Get(c.Request().Context(), claims.ApplicationID)
	if err != nil {
		return h.loadFailure(c, err)
	}
	switch snap.Status {
	case domain.StatusRejected:
		return c.HTML(http.StatusOK, renderResult(resultPage{
			Title:          "Already Rejected",
			Message:        "This application was already rejected. No further action was taken.",
			Success:        true,
			TrackingNumber: snap.TrackingNumber,
			DashboardURL:   h.dashboardURL,
		}))
	case domain.StatusPending, domain.StatusUnderReview:
		return c.HTML(http.StatusOK, renderRejectForm(rejectFormPage{
			FullName:       snap.FullName,
			Email:          snap.Email,
			TrackingNumber: snap.TrackingNumber,
			Amount:         formatUSD(snap.RequestedCents),
			ActionURL:      "/api/admin-action/reject/" + c.Param("token"),
			DashboardURL:   h.dashboardURL,
		}))
	default:
		return c.HTML(http.StatusConflict, renderResult(resultPage{
			Title:          "Cannot Reject",
			Message:        fmt.Sprintf("This application is currently %q and can no longer be rejected from this link.", snap.Status),
			TrackingNumber: snap.TrackingNumber,
			DashboardURL:   h.dashboardURL,
		}))
	}
}

func (h *AdminActionHandler) Reject(c echo.Context) error {
	claims, ok := h.tokens.Verify(c.Param("token"))
	if !ok || claims.Action != token.ActionReject {
		return h.invalidLink(c)
	}
	reason := strings.TrimSpace(c.FormValue("reason"))
	if reason == "" {
		return c.HTML(http.StatusBadRequest, renderResult(resultPage{
			Title:        "Reason Required",
			Message:      "A rejection reason is required. Go back and fill in the reason field.",
			DashboardURL: h.dashboardURL,
		}))
	}
	snap, err := h.uc.Get(c.Request().Context(), claims.ApplicationID)
	if err != nil {
		return h.loadFailure(c, err)
	}
	switch snap.Status {
	case domain.StatusRejected:
		return c.HTML(http.StatusOK, renderResult(resultPage{
			Title:          "Already Rejected",
			Message:        "This application was already rejected. No further action was taken.",
			Success:        true,
			TrackingNumber: snap.TrackingNumber,
			DashboardURL:   h.dashboardURL,
		}))
	case domain.StatusPending, domain.StatusUnderReview:
		snap, err = h.uc.Reject(c.Request().Context(), application.RejectInput{
			ApplicationID: claims.ApplicationID,
			Reason:        reason,
			Source:        "email_action",
		})
		if err != nil {
			return c.HTML(http.StatusInternalServerError, renderResult(resultPage{
				Title:        "Something Went Wrong",
				Message:      "The rejection could not be completed. Please retry from the admin dashboard.",
				DashboardURL: h.dashboardURL,
			}))
		}
		return c.HTML(http.StatusOK, renderResult(resultPage{
			Title:          "Application Rejected",
			Message:        fmt.Sprintf("The loan application for %s has been rejected. The applicant has been notified by email.", snap.FullName),
			Success:        true,
			TrackingNumber: snap.TrackingNumber,
			DashboardURL:   h.dashboardURL,
		}))
	default:
		return c.HTML(http.StatusConflict, renderResult(resultPage{
			Title:          "Cannot Reject",
			Message:        fmt.Sprintf("This application is currently %q and can no longer be rejected from this link.", snap.Status),
			TrackingNumber: snap.TrackingNumber,
			DashboardURL:   h.dashboardURL,
		}))
	}
}

func (h *AdminActionHandler) invalidLink(c echo.Context) error {
	return c.HTML(http.StatusBadRequest, renderResult(resultPage{
		Title:        "Invalid or Expired Link",
		Message:      "This action link is invalid or has expired. Action links are valid for 72 hours. Please use the admin dashboard instead.",
		DashboardURL: h.dashboardURL,
	}))
}

func (h *AdminActionHandler) loadFailure(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.HTML(http.StatusNotFound, renderResult(resultPage{
			Title:        "Application Not Found",
			Message:      "The loan application referenced by this link no longer exists.",
			DashboardURL: h.dashboardURL,
		}))
	}
	return c.HTML(http.StatusInternalServerError, renderResult(resultPage{
		Title:        "Something Went Wrong",
		Message:      "The application could not be loaded. Please retry from the admin dashboard.",
		DashboardURL: h.dashboardURL,
	}))
}
