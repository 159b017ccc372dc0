package application

import (
	"time"

	domain "amerilend-backend/internal/domain/application"
)

type SubmitInput struct {
	UserID         uint64
	FullName       string
	Email          string
	RequestedCents int64
}

type ApproveInput struct {
	ApplicationID uint64
	// ApprovedCents nil or <= 0 means "approve the requested amount".
	ApprovedCents *int64
	Notes         string
	// ActorID is 0 for email-link actions (no admin session).
	ActorID uint64
	Source  string
}

type RejectInput struct {
	ApplicationID uint64
	Reason        string
	ActorID       uint64
	Source        string
}

// Snapshot is the read model handed back after every transition.
type Snapshot struct {
	ID                 uint64        `json:"id"`
	TrackingNumber     string        `json:"tracking_number"`
	UserID             uint64        `json:"user_id"`
	FullName           string        `json:"full_name"`
	Email              string        `json:"email"`
	Status             domain.Status `json:"status"`
	RequestedCents     int64         `json:"requested_amount_cents"`
	ApprovedCents      *int64        `json:"approved_amount_cents,omitempty"`
	ProcessingFeeCents *int64        `json:"processing_fee_cents,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	StatusUpdatedAt    time.Time     `json:"status_updated_at"`
}

func toSnapshot(a *domain.Application) *Snapshot {
	return &Snapshot{
		ID:                 a.ID,
		TrackingNumber:     a.TrackingNumber,
		UserID:             a.UserID,
		FullName:           a.FullName,
		Email:              a.Email,
		Status:             a.Status,
		RequestedCents:     a.RequestedCents,
		ApprovedCents:      a.ApprovedCents,
		ProcessingFeeCents: a.ProcessingFeeCents,
		RejectionReason:    a.RejectionReason,
		CreatedAt:          a.CreatedAt,
		StatusUpdatedAt:    a.StatusUpdatedAt,
	}
}
