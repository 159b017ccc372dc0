package uow

import (
	"context"

	"amerilend-backend/internal/domain/activity"
	"amerilend-backend/internal/domain/application"
	"amerilend-backend/internal/domain/feeconfig"
	"amerilend-backend/internal/domain/payment"
)

type Repos struct {
	Applications application.Repository
	Payments     payment.Repository
	Activities   activity.Repository
	FeeConfigs   feeconfig.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID uint64, fn func(r Repos, a *application.Application) error) error
}
