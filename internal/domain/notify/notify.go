package notify

import (
	"context"

	"amerilend-backend/internal/domain/application"
)

// ApplicationEvent carries everything a notifier needs to describe a status
// change to a human. Delivery is fire-and-forget: the caller logs failures
// and never blocks a transition on them.
type ApplicationEvent struct {
	ApplicationID  uint64
	TrackingNumber string
	Status         application.Status
	FullName       string
	Email          string
	// Detail is a short human-readable note (rejection reason, amounts).
	Detail string
}

type ApplicantNotifier interface {
	NotifyApplicant(ctx context.Context, ev ApplicationEvent) error
}

// AdminNotifier announces a new application to the admin audience, including
// the email-action links for approve/reject.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, ev ApplicationEvent) error
}
