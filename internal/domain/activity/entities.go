package activity

import "time"

// Entry is one immutable audit-trail record. Rows are insert-only; there is
// no update or delete path anywhere in the codebase.
type Entry struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	ActorID    uint64    `gorm:"column:actor_id" json:"actor_id"`
	Action     string    `gorm:"size:64;not null" json:"action"`
	TargetType string    `gorm:"size:32;not null;index:idx_activity_target"`
	TargetID   uint64    `gorm:"not null;index:idx_activity_target" json:"target_id"`
	Details    string    `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "activity_logs" }

const (
	TargetApplication = "loan_application"
	TargetPayment     = "payment"
)
