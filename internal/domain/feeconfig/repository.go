package feeconfig

import "context"

type Repository interface {
	// Active returns the current active configuration or ErrNoActive.
	Active(ctx context.Context) (*Config, error)
	Save(ctx context.Context, c *Config) error
}
