package applicationmock

import (
	"context"

	domain "amerilend-backend/internal/domain/application"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn              func(ctx context.Context, a *domain.Application) error
	GetByIDFn             func(ctx context.Context, id uint64) (*domain.Application, error)
	GetByIDForUpdateFn    func(ctx context.Context, id uint64) (*domain.Application, error)
	GetByTrackingNumberFn func(ctx context.Context, trackingNumber string) (*domain.Application, error)
	SaveFn                func(ctx context.Context, a *domain.Application) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Application, error) {
	if m.GetByTrackingNumberFn != nil {
		return m.GetByTrackingNumberFn(ctx, trackingNumber)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, a *domain.Application) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}
