package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	appDomain "amerilend-backend/internal/domain/application"
	"amerilend-backend/internal/domain/gateway"
	payDomain "amerilend-backend/internal/domain/payment"
	"amerilend-backend/internal/usecase/settlement"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// jsonDomainError maps usecase sentinels onto HTTP codes for the JSON
// endpoints. Anything unrecognized is a 500 with a generic body so internal
// detail never leaks to clients.
func jsonDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, appDomain.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, appDomain.ErrNotFound), errors.Is(err, payDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, appDomain.ErrInvalidTransition),
		errors.Is(err, settlement.ErrNotPayable),
		errors.Is(err, settlement.ErrNotCrypto):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, gateway.ErrDeclined):
		return c.JSON(http.StatusPaymentRequired, ErrorResponse{Error: err.Error()})
	case errors.Is(err, gateway.ErrTxNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// pathID parses a numeric path parameter, returning 0 when absent or
// malformed.
func pathID(c echo.Context, name string) uint64 {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// requestUserID reads the caller identity header validated by the
// idempotency middleware. Routes outside that middleware get 0.
func requestUserID(c echo.Context) uint64 {
	v, err := strconv.ParseUint(c.Request().Header.Get("Ax-User-Id"), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
