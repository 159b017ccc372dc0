package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uint64) (*Payment, error)
	// GetByIDForUpdate locks the row; use inside a UnitOfWork tx.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Payment, error)
	ListByApplicationID(ctx context.Context, applicationID uint64) ([]Payment, error)
	// GetConfirmedByApplicationID returns the one confirmed payment, if any.
	GetConfirmedByApplicationID(ctx context.Context, applicationID uint64) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
}
