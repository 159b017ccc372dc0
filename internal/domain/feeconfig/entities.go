package feeconfig

import (
	"errors"
	"time"
)

type Mode string

const (
	ModePercentage Mode = "percentage"
	ModeFixed      Mode = "fixed"
)

var ErrNoActive = errors.New("no active fee configuration")

// Config is a versioned fee configuration. The active row is looked up at
// approval time; the fee actually charged is frozen into the application, so
// later edits here never touch already-approved applications.
type Config struct {
	ID                uint64 `gorm:"primaryKey;column:id" json:"id"`
	Mode              Mode   `gorm:"type:enum('percentage','fixed');default:'percentage'" json:"calculation_mode"`
	PercentageRateBps int    `gorm:"column:percentage_rate_bps;default:200" json:"percentage_rate_bps"`
	FixedFeeCents     int64  `gorm:"column:fixed_fee_cents;default:200" json:"fixed_fee_cents"`
	IsActive          bool   `gorm:"default:true;index" json:"is_active"`
	UpdatedBy         uint64 `json:"updated_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Config) TableName() string { return "fee_configurations" }
