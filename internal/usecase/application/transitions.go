package application

import (
	"context"
	"time"

	domain "amerilend-backend/internal/domain/application"
	"amerilend-backend/internal/domain/uow"
)

// The settlement coordinator drives fee transitions from inside its own
// locked transaction. These helpers are the single place the fee_pending and
// fee_paid moves happen, so the "at most one payment confirms an
// application" invariant lives here and nowhere else.

// ApplyFeePending moves approved to fee_pending when the first payment
// attempt is created. Already fee_pending is a no-op.
func ApplyFeePending(ctx context.Context, r uow.Repos, a *domain.Application, actorID, paymentID uint64) error {
	if a.Status == domain.StatusFeePending {
		return nil
	}
	if err := a.TransitionTo(domain.StatusFeePending, time.Now().UTC()); err != nil {
		return err
	}
	if err := r.Applications.Save(ctx, a); err != nil {
		return err
	}
	return appendLog(ctx, r.Activities, actorID, "fee_payment_initiated", a.ID, map[string]any{
		"payment_id": paymentID,
	})
}

// ApplyFeePaid moves fee_pending to fee_paid exactly once. A second
// confirmation event observes fee_paid and changes nothing; any other
// current status is an illegal transition.
func ApplyFeePaid(ctx context.Context, r uow.Repos, a *domain.Application, actorID, paymentID uint64) error {
	if a.Status == domain.StatusFeePaid {
		return nil
	}
	// Card captures settle synchronously from approved; step through
	// fee_pending so the table stays closed.
	if a.Status == domain.StatusApproved {
		if err := a.TransitionTo(domain.StatusFeePending, time.Now().UTC()); err != nil {
			return err
		}
	}
	if err := a.TransitionTo(domain.StatusFeePaid, time.Now().UTC()); err != nil {
		return err
	}
	if err := r.Applications.Save(ctx, a); err != nil {
		return err
	}
	return appendLog(ctx, r.Activities, actorID, "fee_paid", a.ID, map[string]any{
		"payment_id": paymentID,
	})
}
