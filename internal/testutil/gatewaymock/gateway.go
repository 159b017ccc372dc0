package gatewaymock

import (
	"context"
	"errors"

	"amerilend-backend/internal/domain/gateway"
)

var errUnimplemented = errors.New("gatewaymock: method not implemented")

// Card is a function-backed mock that satisfies gateway.CardGateway.
type Card struct {
	CaptureFn func(ctx context.Context, in gateway.CardCapture) (*gateway.CardResult, error)
}

func (m *Card) Capture(ctx context.Context, in gateway.CardCapture) (*gateway.CardResult, error) {
	if m.CaptureFn != nil {
		return m.CaptureFn(ctx, in)
	}
	return nil, errUnimplemented
}

// Chain is a function-backed mock that satisfies gateway.ChainSource.
type Chain struct {
	VerifyFn func(ctx context.Context, q gateway.TxQuery) (*gateway.TxVerification, error)
}

func (m *Chain) Verify(ctx context.Context, q gateway.TxQuery) (*gateway.TxVerification, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, q)
	}
	return nil, errUnimplemented
}

// Rates satisfies gateway.RateSource with a fixed conversion answer.
type Rates struct {
	ConvertFn func(ctx context.Context, usdCents int64, currency string) (string, error)
	RatesFn   func(ctx context.Context) (map[string]float64, error)
}

func (m *Rates) Convert(ctx context.Context, usdCents int64, currency string) (string, error) {
	if m.ConvertFn != nil {
		return m.ConvertFn(ctx, usdCents, currency)
	}
	return "0.01000000", nil
}

func (m *Rates) Rates(ctx context.Context) (map[string]float64, error) {
	if m.RatesFn != nil {
		return m.RatesFn(ctx)
	}
	return map[string]float64{"BTC": 65000, "ETH": 3200, "USDT": 1, "USDC": 1}, nil
}
