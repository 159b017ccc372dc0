package http

import (
	"net/http"

	"amerilend-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct{ uc *application.Usecase }

func NewApplicationHandler(uc *application.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type submitApplicationReq struct {
	FullName       string `json:"full_name"              validate:"required"`
	Email          string `json:"email"                  validate:"required,email"`
	RequestedCents int64  `json:"requested_amount_cents" validate:"required,gt=0"`
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req submitApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	snap, err := h.uc.Submit(c.Request().Context(), application.SubmitInput{
		UserID:         requestUserID(c),
		FullName:       req.FullName,
		Email:          req.Email,
		RequestedCents: req.RequestedCents,
	})
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, snap)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	id := pathID(c, "application_id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id path param"})
	}
	snap, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}
