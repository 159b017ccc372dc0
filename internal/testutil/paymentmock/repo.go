package paymentmock

import (
	"context"

	domain "amerilend-backend/internal/domain/payment"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                      func(ctx context.Context, p *domain.Payment) error
	GetByIDFn                     func(ctx context.Context, id uint64) (*domain.Payment, error)
	GetByIDForUpdateFn            func(ctx context.Context, id uint64) (*domain.Payment, error)
	ListByApplicationIDFn         func(ctx context.Context, applicationID uint64) ([]domain.Payment, error)
	GetConfirmedByApplicationIDFn func(ctx context.Context, applicationID uint64) (*domain.Payment, error)
	SaveFn                        func(ctx context.Context, p *domain.Payment) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Payment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Payment, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByApplicationID(ctx context.Context, applicationID uint64) ([]domain.Payment, error) {
	if m.ListByApplicationIDFn != nil {
		return m.ListByApplicationIDFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) GetConfirmedByApplicationID(ctx context.Context, applicationID uint64) (*domain.Payment, error) {
	if m.GetConfirmedByApplicationIDFn != nil {
		return m.GetConfirmedByApplicationIDFn(ctx, applicationID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, p *domain.Payment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
