package application

import "context"

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id uint64) (*Application, error)
	// GetByIDForUpdate locks the row (SELECT ... FOR UPDATE) inside a tx.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Application, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*Application, error)
	Save(ctx context.Context, a *Application) error
}
