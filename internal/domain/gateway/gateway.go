package gateway

import (
	"context"
	"errors"
)

// ErrDeclined marks a definitive negative from the card processor. Anything
// else returned from Capture is transient and safe to retry.
var ErrDeclined = errors.New("card declined")

// ErrTxNotFound marks a transaction the chain source definitively does not
// know about, as opposed to a transient RPC failure.
var ErrTxNotFound = errors.New("transaction not found on chain")

// CardCapture is a capture request built from a client-side tokenized card.
// Raw card data never reaches this process; DataDescriptor/DataValue are the
// opaque pair produced by the gateway's browser SDK.
type CardCapture struct {
	AmountCents    int64
	DataDescriptor string
	DataValue      string
	Description    string
}

type CardResult struct {
	ProviderRef string
	AuthCode    string
	CardLast4   string
	CardBrand   string
}

type CardGateway interface {
	Capture(ctx context.Context, in CardCapture) (*CardResult, error)
}

// TxQuery asks a chain source whether txHash pays the expected amount to the
// expected address.
type TxQuery struct {
	Currency string
	TxHash   string
	Address  string
	Amount   string
}

// TxVerification is the normalized answer. The caller owns the confirmation
// threshold; the source only reports what the chain says.
type TxVerification struct {
	RecipientOK   bool
	AmountOK      bool
	TxFailed      bool
	Confirmations int
	Message       string
}

type ChainSource interface {
	Verify(ctx context.Context, q TxQuery) (*TxVerification, error)
}

// RateSource converts fee amounts into crypto units using a rate snapshot
// taken at call time.
type RateSource interface {
	// Convert returns the crypto amount as a decimal string.
	Convert(ctx context.Context, usdCents int64, currency string) (string, error)
	Rates(ctx context.Context) (map[string]float64, error)
}
