package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"amerilend-backend/internal/domain/activity"
	domain "amerilend-backend/internal/domain/application"
	"amerilend-backend/internal/domain/feeconfig"
	"amerilend-backend/internal/domain/notify"
	"amerilend-backend/internal/domain/uow"
	"amerilend-backend/internal/fee"
	"amerilend-backend/pkg/id"
)

const maxTrackingAttempts = 10

type Usecase struct {
	uow        uow.UnitOfWork
	apps       domain.Repository
	applicants notify.ApplicantNotifier
	admins     notify.AdminNotifier
}

func NewUsecase(tx uow.UnitOfWork, apps domain.Repository, applicants notify.ApplicantNotifier, admins notify.AdminNotifier) *Usecase {
	return &Usecase{uow: tx, apps: apps, applicants: applicants, admins: admins}
}

// Submit creates a pending application with a unique tracking number, logs
// the submission and notifies both the applicant and the admin audience.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*Snapshot, error) {
	if in.UserID == 0 || strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" || in.RequestedCents <= 0 {
		return nil, domain.ErrValidation
	}

	var snap *Snapshot
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		tracking, err := u.uniqueTrackingNumber(ctx, r.Applications)
		if err != nil {
			return err
		}
		a := &domain.Application{
			TrackingNumber:  tracking,
			UserID:          in.UserID,
			FullName:        strings.TrimSpace(in.FullName),
			Email:           strings.TrimSpace(in.Email),
			RequestedCents:  in.RequestedCents,
			Status:          domain.StatusPending,
			StatusUpdatedAt: time.Now().UTC(),
		}
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		if err := appendLog(ctx, r.Activities, in.UserID, "submit_application", a.ID, map[string]any{
			"requested_amount": in.RequestedCents,
		}); err != nil {
			return err
		}
		snap = toSnapshot(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.applicants != nil {
		u.send(ctx, u.applicants.NotifyApplicant, snap, "application received")
	}
	if u.admins != nil {
		u.send(ctx, u.admins.NotifyAdmins, snap, "new application awaiting review")
	}
	return snap, nil
}

func (u *Usecase) Get(ctx context.Context, applicationID uint64) (*Snapshot, error) {
	a, err := u.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toSnapshot(a), nil
}

// Approve moves pending/under_review to approved, freezing the approved
// amount and the processing fee computed against the fee configuration
// active right now. Re-approving an already-approved application is a no-op
// success returning the frozen figures; a double-clicked email link must not
// double-process.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*Snapshot, error) {
	var (
		snap     *Snapshot
		approved bool
	)
	err := u.uow.WithinApplicationTx(ctx, in.ApplicationID, func(r uow.Repos, a *domain.Application) error {
		if a.Status == domain.StatusApproved {
			snap = toSnapshot(a)
			return nil
		}
		if a.Status != domain.StatusPending && a.Status != domain.StatusUnderReview {
			return domain.ErrInvalidTransition
		}

		amount := a.RequestedCents
		if in.ApprovedCents != nil && *in.ApprovedCents > 0 {
			amount = *in.ApprovedCents
		}
		feeCents, err := u.computeFee(ctx, r.FeeConfigs, a.ID, amount)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := a.TransitionTo(domain.StatusApproved, now); err != nil {
			return err
		}
		a.ApprovedCents = &amount
		a.ProcessingFeeCents = &feeCents
		a.ApprovedAt = &now
		if in.Notes != "" {
			a.AdminNotes = in.Notes
		}
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		if err := appendLog(ctx, r.Activities, in.ActorID, "approve_loan", a.ID, map[string]any{
			"approved_amount": amount,
			"processing_fee":  feeCents,
			"source":          in.Source,
		}); err != nil {
			return err
		}
		snap = toSnapshot(a)
		approved = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if approved && u.applicants != nil {
		u.send(ctx, u.applicants.NotifyApplicant, snap, "application approved")
	}
	return snap, nil
}

// Reject requires a non-empty reason; rejecting an already-rejected
// application succeeds without side effects.
func (u *Usecase) Reject(ctx context.Context, in RejectInput) (*Snapshot, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}

	var (
		snap     *Snapshot
		rejected bool
	)
	err := u.uow.WithinApplicationTx(ctx, in.ApplicationID, func(r uow.Repos, a *domain.Application) error {
		if a.Status == domain.StatusRejected {
			snap = toSnapshot(a)
			return nil
		}
		if a.Status != domain.StatusPending && a.Status != domain.StatusUnderReview {
			return domain.ErrInvalidTransition
		}
		if err := a.TransitionTo(domain.StatusRejected, time.Now().UTC()); err != nil {
			return err
		}
		a.RejectionReason = reason
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		if err := appendLog(ctx, r.Activities, in.ActorID, "reject_loan", a.ID, map[string]any{
			"reason": reason,
			"source": in.Source,
		}); err != nil {
			return err
		}
		snap = toSnapshot(a)
		rejected = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejected && u.applicants != nil {
		u.send(ctx, u.applicants.NotifyApplicant, snap, reason)
	}
	return snap, nil
}

// MarkUnderReview moves pending to under_review; already under review is a
// no-op success.
func (u *Usecase) MarkUnderReview(ctx context.Context, applicationID, actorID uint64) (*Snapshot, error) {
	var snap *Snapshot
	err := u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domain.Application) error {
		if a.Status == domain.StatusUnderReview {
			snap = toSnapshot(a)
			return nil
		}
		if err := a.TransitionTo(domain.StatusUnderReview, time.Now().UTC()); err != nil {
			return err
		}
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		if err := appendLog(ctx, r.Activities, actorID, "review_loan", a.ID, nil); err != nil {
			return err
		}
		snap = toSnapshot(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Disburse moves fee_paid to disbursed.
func (u *Usecase) Disburse(ctx context.Context, applicationID, actorID uint64) (*Snapshot, error) {
	var (
		snap      *Snapshot
		disbursed bool
	)
	err := u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domain.Application) error {
		if a.Status == domain.StatusDisbursed {
			snap = toSnapshot(a)
			return nil
		}
		now := time.Now().UTC()
		if err := a.TransitionTo(domain.StatusDisbursed, now); err != nil {
			return err
		}
		a.DisbursedAt = &now
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		if err := appendLog(ctx, r.Activities, actorID, "disburse_loan", a.ID, nil); err != nil {
			return err
		}
		snap = toSnapshot(a)
		disbursed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if disbursed && u.applicants != nil {
		u.send(ctx, u.applicants.NotifyApplicant, snap, "loan disbursed")
	}
	return snap, nil
}

func (u *Usecase) computeFee(ctx context.Context, cfgs feeconfig.Repository, applicationID uint64, amount int64) (int64, error) {
	cfg, err := cfgs.Active(ctx)
	switch {
	case err == nil:
		return fee.Compute(amount, cfg), nil
	case errors.Is(err, feeconfig.ErrNoActive) || errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("fee: no active configuration, applying %dbp fallback for application %d", fee.FallbackRateBps, applicationID)
		return fee.Fallback(amount), nil
	default:
		return 0, err
	}
}

// send delivers one notification; failures are logged, never surfaced. The
// transition already committed.
func (u *Usecase) send(ctx context.Context, fn func(context.Context, notify.ApplicationEvent) error, s *Snapshot, detail string) {
	ev := notify.ApplicationEvent{
		ApplicationID:  s.ID,
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status,
		FullName:       s.FullName,
		Email:          s.Email,
		Detail:         detail,
	}
	if err := fn(ctx, ev); err != nil {
		log.Printf("notify: application %d (%s): %v", s.ID, s.Status, err)
	}
}

func (u *Usecase) uniqueTrackingNumber(ctx context.Context, apps domain.Repository) (string, error) {
	for i := 0; i < maxTrackingAttempts; i++ {
		tn := id.NewTrackingNumber(time.Now().UTC())
		_, err := apps.GetByTrackingNumber(ctx, tn)
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domain.ErrNotFound) {
			return tn, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not generate a unique tracking number")
}

func appendLog(ctx context.Context, logs activity.Repository, actorID uint64, action string, applicationID uint64, details map[string]any) error {
	var detailsJSON string
	if details != nil {
		b, _ := json.Marshal(details)
		detailsJSON = string(b)
	}
	return logs.Append(ctx, &activity.Entry{
		ActorID:    actorID,
		Action:     action,
		TargetType: activity.TargetApplication,
		TargetID:   applicationID,
		Details:    detailsJSON,
	})
}
