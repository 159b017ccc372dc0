package http

import (
	"net/http"

	"amerilend-backend/internal/domain/gateway"
	"amerilend-backend/internal/domain/payment"
	"amerilend-backend/internal/usecase/settlement"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	uc    *settlement.Usecase
	rates gateway.RateSource
}

func NewPaymentHandler(uc *settlement.Usecase, rates gateway.RateSource) *PaymentHandler {
	return &PaymentHandler{uc: uc, rates: rates}
}

type opaqueDataReq struct {
	DataDescriptor string `json:"data_descriptor" validate:"required"`
	DataValue      string `json:"data_value"      validate:"required"`
}

type createIntentReq struct {
	ApplicationID  uint64         `json:"loan_application_id" validate:"required,gt=0"`
	Method         string         `json:"method"              validate:"required,oneof=card crypto"`
	OpaqueData     *opaqueDataReq `json:"opaque_data"         validate:"omitempty"`
	CryptoCurrency string         `json:"crypto_currency"     validate:"omitempty,oneof=BTC ETH USDT USDC"`
}

func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req createIntentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	in := settlement.CreateIntentInput{
		ApplicationID: req.ApplicationID,
		UserID:        requestUserID(c),
		Method:        payment.Method(req.Method),
	}
	switch in.Method {
	case payment.MethodCard:
		if req.OpaqueData == nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "opaque_data", Message: "opaque_data is required for card payments"}},
			})
		}
		in.OpaqueDataDescriptor = req.OpaqueData.DataDescriptor
		in.OpaqueDataValue = req.OpaqueData.DataValue
	case payment.MethodCrypto:
		if req.CryptoCurrency == "" {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "crypto_currency", Message: "crypto_currency is required for crypto payments"}},
			})
		}
		in.CryptoCurrency = req.CryptoCurrency
	}
	intent, err := h.uc.CreateIntent(c.Request().Context(), in)
	if err != nil {
		return jsonDomainError(c, err)
	}
	// A declined card still yields an intent so clients can retry with a
	// fresh opaque token.
	code := http.StatusCreated
	if intent.Status == payment.StatusFailed {
		code = http.StatusPaymentRequired
	}
	return c.JSON(code, intent)
}

type verifyCryptoReq struct {
	TxHash string `json:"tx_hash" validate:"required,txhash"`
}

func (h *PaymentHandler) VerifyCrypto(c echo.Context) error {
	id := pathID(c, "payment_id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment_id path param"})
	}
	var req verifyCryptoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	out, err := h.uc.VerifyCrypto(c.Request().Context(), settlement.VerifyCryptoInput{
		PaymentID: id,
		TxHash:    req.TxHash,
		ActorID:   requestUserID(c),
	})
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Confirm force-settles a crypto payment without waiting for chain
// confirmations. Mounted behind the admin key.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	id := pathID(c, "payment_id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment_id path param"})
	}
	out, err := h.uc.Confirm(c.Request().Context(), id, adminActorID(c))
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type paymentStatusResp struct {
	PaymentID      uint64         `json:"payment_id"`
	ApplicationID  uint64         `json:"loan_application_id"`
	Method         payment.Method `json:"method"`
	Status         payment.Status `json:"status"`
	AmountCents    int64          `json:"amount_cents"`
	CryptoCurrency string         `json:"crypto_currency,omitempty"`
	CryptoAddress  string         `json:"crypto_address,omitempty"`
	CryptoAmount   string         `json:"crypto_amount,omitempty"`
	TxHash         string         `json:"tx_hash,omitempty"`
	Confirmations  int            `json:"confirmations"`
	FailureReason  string         `json:"failure_reason,omitempty"`
}

func (h *PaymentHandler) Status(c echo.Context) error {
	id := pathID(c, "payment_id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment_id path param"})
	}
	p, err := h.uc.Status(c.Request().Context(), id)
	if err != nil {
		return jsonDomainError(c, err)
	}
	return c.JSON(http.StatusOK, paymentStatusResp{
		PaymentID:      p.ID,
		ApplicationID:  p.LoanApplicationID,
		Method:         p.Method,
		Status:         p.Status,
		AmountCents:    p.AmountCents,
		CryptoCurrency: p.CryptoCurrency,
		CryptoAddress:  p.CryptoAddress,
		CryptoAmount:   p.CryptoAmount,
		TxHash:         p.CryptoTxHash,
		Confirmations:  p.ConfirmationsSeen,
		FailureReason:  p.FailureReason,
	})
}

func (h *PaymentHandler) Rates(c echo.Context) error {
	rates, err := h.rates.Rates(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "rates unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]any{"rates": rates})
}
