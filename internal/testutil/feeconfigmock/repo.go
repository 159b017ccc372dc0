package feeconfigmock

import (
	"context"

	domain "amerilend-backend/internal/domain/feeconfig"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// The default Active answer is ErrNoActive, which exercises the fee
// fallback path.
type Repo struct {
	ActiveFn func(ctx context.Context) (*domain.Config, error)
	SaveFn   func(ctx context.Context, c *domain.Config) error
}

func (m *Repo) Active(ctx context.Context) (*domain.Config, error) {
	if m.ActiveFn != nil {
		return m.ActiveFn(ctx)
	}
	return nil, domain.ErrNoActive
}

func (m *Repo) Save(ctx context.Context, c *domain.Config) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

// Percentage returns a repo whose active config is a percentage fee at the
// given basis points.
func Percentage(bps int) *Repo {
	cfg := &domain.Config{ID: 1, Mode: domain.ModePercentage, PercentageRateBps: bps, IsActive: true}
	return &Repo{ActiveFn: func(context.Context) (*domain.Config, error) { return cfg, nil }}
}

// Fixed returns a repo whose active config is a fixed fee in cents.
func Fixed(cents int64) *Repo {
	cfg := &domain.Config{ID: 1, Mode: domain.ModeFixed, FixedFeeCents: cents, IsActive: true}
	return &Repo{ActiveFn: func(context.Context) (*domain.Config, error) { return cfg, nil }}
}
