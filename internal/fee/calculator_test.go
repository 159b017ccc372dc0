package fee

import (
	"testing"

	"amerilend-backend/internal/domain/feeconfig"
)

func TestCompute_Percentage(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		bps    int
		want   int64
	}{
		{"2% of $10,000", 1_000_000, 200, 20_000},
		{"2% of $5,000", 500_000, 200, 10_000},
		{"rounds half up", 12_345, 200, 247},    // 246.9 -> 247
		{"rounds half down stays", 101, 200, 2}, // 2.02 -> 2
		{"exact half rounds up", 25, 200, 1},    // 0.5 -> 1
		{"zero amount", 0, 200, 0},
		{"3.5% rate", 1_000_000, 350, 35_000},
		{"1 bp of 1 cent", 1, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &feeconfig.Config{Mode: feeconfig.ModePercentage, PercentageRateBps: tc.bps}
			if got := Compute(tc.amount, cfg); got != tc.want {
				t.Fatalf("Compute(%d, %dbps) = %d, want %d", tc.amount, tc.bps, got, tc.want)
			}
		})
	}
}

func TestCompute_Fixed(t *testing.T) {
	cfg := &feeconfig.Config{Mode: feeconfig.ModeFixed, FixedFeeCents: 9_900}
	for _, amount := range []int64{0, 1, 500_000, 100_000_000} {
		if got := Compute(amount, cfg); got != 9_900 {
			t.Fatalf("Compute(%d, fixed) = %d, want 9900", amount, got)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	cfg := &feeconfig.Config{Mode: feeconfig.ModePercentage, PercentageRateBps: 275}
	first := Compute(123_456_789, cfg)
	for i := 0; i < 100; i++ {
		if got := Compute(123_456_789, cfg); got != first {
			t.Fatalf("iteration %d: got %d, want %d", i, got, first)
		}
	}
}

func TestCompute_PercentageMonotonic(t *testing.T) {
	cfg := &feeconfig.Config{Mode: feeconfig.ModePercentage, PercentageRateBps: 200}
	prev := int64(-1)
	for amount := int64(0); amount <= 100_000; amount += 97 {
		got := Compute(amount, cfg)
		if got < prev {
			t.Fatalf("fee not monotonic: Compute(%d)=%d < previous %d", amount, got, prev)
		}
		prev = got
	}
}

func TestFallback(t *testing.T) {
	if got := Fallback(1_000_000); got != 20_000 {
		t.Fatalf("Fallback(1000000) = %d, want 20000", got)
	}
	cfg := &feeconfig.Config{Mode: feeconfig.ModePercentage, PercentageRateBps: FallbackRateBps}
	for _, amount := range []int64{0, 1, 25, 12_345, 500_000} {
		if Fallback(amount) != Compute(amount, cfg) {
			t.Fatalf("Fallback(%d) diverges from 200bps Compute", amount)
		}
	}
}
