package application

import (
	"context"
	"errors"
	"testing"

	domain "amerilend-backend/internal/domain/application"
	"amerilend-backend/internal/testutil/feeconfigmock"
	"amerilend-backend/internal/testutil/notifymock"
	"amerilend-backend/internal/testutil/uowmock"
)

func newFixture(t *testing.T) (*Usecase, *uowmock.Mem, *notifymock.Recorder) {
	t.Helper()
	mem := uowmock.NewMem()
	rec := &notifymock.Recorder{}
	uc := NewUsecase(mem, mem.AppRepo(), rec, rec)
	return uc, mem, rec
}

func TestSubmit(t *testing.T) {
	uc, mem, rec := newFixture(t)

	snap, err := uc.Submit(context.Background(), SubmitInput{
		UserID:         9,
		FullName:       "Ada Lovelace",
		Email:          "ada@example.com",
		RequestedCents: 1_000_000,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if snap.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", snap.Status)
	}
	if snap.TrackingNumber == "" {
		t.Fatalf("tracking number not assigned")
	}
	stored := mem.Application(snap.ID)
	if stored == nil || stored.TrackingNumber != snap.TrackingNumber {
		t.Fatalf("application not persisted: %+v", stored)
	}
	if got := mem.Activity.Actions(); len(got) != 1 || got[0] != "submit_application" {
		t.Fatalf("activity log = %v, want [submit_application]", got)
	}
	if len(rec.ApplicantEvents()) != 1 || len(rec.Admin) != 1 {
		t.Fatalf("expected one applicant and one admin notification")
	}
}

func TestSubmit_Validation(t *testing.T) {
	uc, _, _ := newFixture(t)
	cases := []SubmitInput{
		{UserID: 0, FullName: "A", Email: "a@b.c", RequestedCents: 100},
		{UserID: 1, FullName: "  ", Email: "a@b.c", RequestedCents: 100},
		{UserID: 1, FullName: "A", Email: "", RequestedCents: 100},
		{UserID: 1, FullName: "A", Email: "a@b.c", RequestedCents: 0},
		{UserID: 1, FullName: "A", Email: "a@b.c", RequestedCents: -5},
	}
	for i, in := range cases {
		if _, err := uc.Submit(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func seed(mem *uowmock.Mem, id uint64, status domain.Status) {
	mem.Put(&domain.Application{
		ID:             id,
		TrackingNumber: "AL-20260101-TEST1",
		UserID:         9,
		FullName:       "Ada Lovelace",
		Email:          "ada@example.com",
		RequestedCents: 1_000_000,
		Status:         status,
	})
}

func TestApprove(t *testing.T) {
	uc, mem, rec := newFixture(t)
	mem.FeeConfigs = feeconfigmock.Percentage(250)
	seed(mem, 1, domain.StatusPending)

	snap, err := uc.Approve(context.Background(), ApproveInput{ApplicationID: 1, ActorID: 3, Source: "admin_api"})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if snap.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want approved", snap.Status)
	}
	if snap.ApprovedCents == nil || *snap.ApprovedCents != 1_000_000 {
		t.Fatalf("approved amount should default to requested, got %v", snap.ApprovedCents)
	}
	if snap.ProcessingFeeCents == nil || *snap.ProcessingFeeCents != 25_000 {
		t.Fatalf("fee = %v, want 25000 (2.5%% of 1000000)", snap.ProcessingFeeCents)
	}
	if got := mem.Activity.Actions(); len(got) != 1 || got[0] != "approve_loan" {
		t.Fatalf("activity log = %v, want [approve_loan]", got)
	}
	if len(rec.ApplicantEvents()) != 1 {
		t.Fatalf("expected one applicant notification")
	}
}

func TestApprove_ExplicitAmount(t *testing.T) {
	uc, mem, _ := newFixture(t)
	mem.FeeConfigs = feeconfigmock.Percentage(200)
	seed(mem, 1, domain.StatusUnderReview)

	amount := int64(750_000)
	snap, err := uc.Approve(context.Background(), ApproveInput{ApplicationID: 1, ApprovedCents: &amount})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if *snap.ApprovedCents != 750_000 || *snap.ProcessingFeeCents != 15_000 {
		t.Fatalf("got amount=%d fee=%d, want 750000/15000", *snap.ApprovedCents, *snap.ProcessingFeeCents)
	}
}

func TestApprove_FallbackFee(t *testing.T) {
	uc, mem, _ := newFixture(t)
	// default feeconfigmock answers ErrNoActive
	seed(mem, 1, domain.StatusPending)

	snap, err := uc.Approve(context.Background(), ApproveInput{ApplicationID: 1})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if *snap.ProcessingFeeCents != 20_000 {
		t.Fatalf("fallback fee = %d, want 20000 (2%%)", *snap.ProcessingFeeCents)
	}
}

func TestApprove_FixedFee(t *testing.T) {
	uc, mem, _ := newFixture(t)
	mem.FeeConfigs = feeconfigmock.Fixed(4_900)
	seed(mem, 1, domain.StatusPending)

	snap, err := uc.Approve(context.Background(), ApproveInput{ApplicationID: 1})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if *snap.ProcessingFeeCents != 4_900 {
		t.Fatalf("fixed fee = %d, want 4900", *snap.ProcessingFeeCents)
	}
}

func TestApprove_IdempotentAndFeeFrozen(t *testing.T) {
	uc, mem, rec := newFixture(t)
	mem.FeeConfigs = feeconfigmock.Percentage(200)
	seed(mem, 1, domain.StatusPending)

	first, err := uc.Approve(context.Background(), ApproveInput{ApplicationID: 1})
	if err != nil {
		t.Fatalf("first Approve: %v", err)
	}

	// The fee configuration changes after approval; the frozen figures must
	// not move.
	mem.FeeConfigs = feeconfigmock.Percentage(500)

	second, err := uc.Approve(context.Background(), ApproveInput{ApplicationID: 1})
	if err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if *second.ProcessingFeeCents != *first.ProcessingFeeCents {
		t.Fatalf("fee changed on re-approve: %d -> %d", *first.ProcessingFeeCents, *second.ProcessingFeeCents)
	}
	if *second.ApprovedCents != *first.ApprovedCents {
		t.Fatalf("amount changed on re-approve")
	}
	if got := mem.Activity.Actions(); len(got) != 1 {
		t.Fatalf("re-approve must not append activity, log = %v", got)
	}
	if len(rec.ApplicantEvents()) != 1 {
		t.Fatalf("re-approve must not re-notify")
	}
}

func TestApprove_InvalidState(t *testing.T) {
	uc, mem, _ := newFixture(t)
	for _, status := range []domain.Status{domain.StatusRejected, domain.StatusFeePending, domain.StatusFeePaid, domain.StatusDisbursed} {
		seed(mem, 1, status)
		if _, err := uc.Approve(context.Background(), ApproveInput{ApplicationID: 1}); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("status %s: err = %v, want ErrInvalidTransition", status, err)
		}
	}
}

func TestApprove_NotFound(t *testing.T) {
	uc, _, _ := newFixture(t)
	if _, err := uc.Approve(context.Background(), ApproveInput{ApplicationID: 404}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReject(t *testing.T) {
	uc, mem, rec := newFixture(t)
	seed(mem, 1, domain.StatusUnderReview)

	snap, err := uc.Reject(context.Background(), RejectInput{ApplicationID: 1, Reason: "  income not verifiable  "})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if snap.Status != domain.StatusRejected {
		t.Fatalf("status = %s, want rejected", snap.Status)
	}
	if snap.RejectionReason != "income not verifiable" {
		t.Fatalf("reason = %q, want trimmed reason", snap.RejectionReason)
	}
	if len(rec.ApplicantEvents()) != 1 {
		t.Fatalf("expected one applicant notification")
	}
}

func TestReject_BlankReason(t *testing.T) {
	uc, mem, _ := newFixture(t)
	seed(mem, 1, domain.StatusPending)
	for _, reason := range []string{"", "   ", "\t\n"} {
		if _, err := uc.Reject(context.Background(), RejectInput{ApplicationID: 1, Reason: reason}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("reason %q: err = %v, want ErrValidation", reason, err)
		}
	}
	if mem.Application(1).Status != domain.StatusPending {
		t.Fatalf("blank-reason reject must not transition")
	}
}

func TestReject_Idempotent(t *testing.T) {
	uc, mem, rec := newFixture(t)
	seed(mem, 1, domain.StatusPending)

	if _, err := uc.Reject(context.Background(), RejectInput{ApplicationID: 1, Reason: "first"}); err != nil {
		t.Fatalf("first Reject: %v", err)
	}
	snap, err := uc.Reject(context.Background(), RejectInput{ApplicationID: 1, Reason: "second"})
	if err != nil {
		t.Fatalf("second Reject: %v", err)
	}
	if snap.RejectionReason != "first" {
		t.Fatalf("re-reject overwrote the reason: %q", snap.RejectionReason)
	}
	if got := mem.Activity.Actions(); len(got) != 1 {
		t.Fatalf("re-reject must not append activity, log = %v", got)
	}
	if len(rec.ApplicantEvents()) != 1 {
		t.Fatalf("re-reject must not re-notify")
	}
}

func TestReject_InvalidState(t *testing.T) {
	uc, mem, _ := newFixture(t)
	seed(mem, 1, domain.StatusFeePaid)
	if _, err := uc.Reject(context.Background(), RejectInput{ApplicationID: 1, Reason: "late"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestMarkUnderReview(t *testing.T) {
	uc, mem, _ := newFixture(t)
	seed(mem, 1, domain.StatusPending)

	snap, err := uc.MarkUnderReview(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("MarkUnderReview: %v", err)
	}
	if snap.Status != domain.StatusUnderReview {
		t.Fatalf("status = %s, want under_review", snap.Status)
	}
	// no-op when already under review
	if _, err := uc.MarkUnderReview(context.Background(), 1, 3); err != nil {
		t.Fatalf("repeat MarkUnderReview: %v", err)
	}
	if got := mem.Activity.Actions(); len(got) != 1 {
		t.Fatalf("repeat must not append activity, log = %v", got)
	}
}

func TestDisburse(t *testing.T) {
	uc, mem, _ := newFixture(t)
	seed(mem, 1, domain.StatusFeePaid)

	snap, err := uc.Disburse(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("Disburse: %v", err)
	}
	if snap.Status != domain.StatusDisbursed {
		t.Fatalf("status = %s, want disbursed", snap.Status)
	}

	seed(mem, 2, domain.StatusPending)
	if _, err := uc.Disburse(context.Background(), 2, 3); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("disburse from pending: err = %v, want ErrInvalidTransition", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	uc, _, _ := newFixture(t)
	if _, err := uc.Get(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
