package fee

import (
	"amerilend-backend/internal/domain/feeconfig"
)

// FallbackRateBps is applied when no active fee configuration exists. The
// caller must log that the fallback fired; money math never falls back
// silently.
const FallbackRateBps = 200 // 2.00%

// Compute returns the processing fee in cents for an approved amount.
// Percentage mode rounds half-up on the basis-point product.
func Compute(approvedCents int64, cfg *feeconfig.Config) int64 {
	switch cfg.Mode {
	case feeconfig.ModeFixed:
		return cfg.FixedFeeCents
	default:
		return percentage(approvedCents, int64(cfg.PercentageRateBps))
	}
}

// Fallback computes the hard-coded 2% default fee.
func Fallback(approvedCents int64) int64 {
	return percentage(approvedCents, FallbackRateBps)
}

func percentage(cents, bps int64) int64 {
	return (cents*bps + 5_000) / 10_000
}
