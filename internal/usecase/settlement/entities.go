package settlement

import (
	"errors"

	"amerilend-backend/internal/domain/payment"
)

var (
	// ErrNotPayable means the application is not in a state that accepts a
	// fee payment (not approved yet, or the fee has already settled).
	ErrNotPayable = errors.New("application is not awaiting fee payment")
	// ErrNotCrypto guards crypto-only operations.
	ErrNotCrypto = errors.New("payment is not a crypto payment")
)

type CreateIntentInput struct {
	ApplicationID uint64
	UserID        uint64
	Method        payment.Method
	// Card: opaque tokenized payment data from the gateway's browser SDK.
	OpaqueDataDescriptor string
	OpaqueDataValue      string
	// Crypto: requested settlement currency (BTC, ETH, USDT, USDC).
	CryptoCurrency string
}

// Intent is the outcome of a payment attempt creation. Card attempts settle
// synchronously, so Status may already be terminal here.
type Intent struct {
	PaymentID   uint64         `json:"payment_id"`
	Status      payment.Status `json:"status"`
	Method      payment.Method `json:"method"`
	AmountCents int64          `json:"amount_cents"`
	ProviderRef string         `json:"provider_ref,omitempty"`

	CryptoCurrency string `json:"crypto_currency,omitempty"`
	CryptoAddress  string `json:"crypto_address,omitempty"`
	CryptoAmount   string `json:"crypto_amount,omitempty"`

	Retryable bool   `json:"retryable,omitempty"`
	Message   string `json:"message,omitempty"`
}

type VerifyCryptoInput struct {
	PaymentID uint64
	TxHash    string
	ActorID   uint64
}

// CryptoVerification reports where a crypto payment stands. A count below
// the required threshold is an in-progress status, not an error.
type CryptoVerification struct {
	PaymentID     uint64         `json:"payment_id"`
	Status        payment.Status `json:"status"`
	Confirmed     bool           `json:"confirmed"`
	Confirmations int            `json:"confirmations"`
	Required      int            `json:"required"`
	Message       string         `json:"message,omitempty"`
}
