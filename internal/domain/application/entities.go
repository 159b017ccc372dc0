package application

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusFeePending  Status = "fee_pending"
	StatusFeePaid     Status = "fee_paid"
	StatusDisbursed   Status = "disbursed"
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("invalid input")
)

// transitions is the closed table of legal status moves. Everything not
// listed here is rejected at transition time.
var transitions = map[Status][]Status{
	StatusPending:     {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {StatusFeePending},
	StatusFeePending:  {StatusFeePaid},
	StatusFeePaid:     {StatusDisbursed},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Application struct {
	ID             uint64 `gorm:"primaryKey;column:id" json:"id"`
	TrackingNumber string `gorm:"size:20;uniqueIndex:ux_applications_tracking" json:"tracking_number"`
	UserID         uint64 `gorm:"index:idx_applications_user" json:"user_id"`

	FullName string `gorm:"size:255" json:"full_name"`
	Email    string `gorm:"size:320" json:"email"`

	// All money columns are integer minor units (cents).
	RequestedCents     int64  `gorm:"column:requested_amount_cents" json:"requested_amount_cents"`
	ApprovedCents      *int64 `gorm:"column:approved_amount_cents" json:"approved_amount_cents"`
	ProcessingFeeCents *int64 `gorm:"column:processing_fee_cents" json:"processing_fee_cents"`

	Status          Status `gorm:"type:enum('pending','under_review','approved','rejected','fee_pending','fee_paid','disbursed');default:'pending'" json:"status"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason,omitempty"`
	AdminNotes      string `gorm:"type:text" json:"-"`

	StatusUpdatedAt time.Time  `gorm:"autoCreateTime" json:"status_updated_at"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	DisbursedAt     *time.Time `json:"disbursed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Application) TableName() string { return "loan_applications" }

// TransitionTo moves the application to next if the transition table allows
// it. Callers must hold the row lock; this only mutates the in-memory row.
func (a *Application) TransitionTo(next Status, now time.Time) error {
	if !a.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	a.Status = next
	a.StatusUpdatedAt = now
	return nil
}
