package payment

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusVerifying Status = "verifying"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

type Method string

const (
	MethodCard   Method = "card"
	MethodCrypto Method = "crypto"
)

type Provider string

const (
	ProviderAuthorizeNet Provider = "authorizenet"
	ProviderCrypto       Provider = "crypto"
)

var (
	ErrNotFound = errors.New("payment not found")
)

// Terminal reports whether no further status change is allowed.
func (s Status) Terminal() bool { return s == StatusConfirmed || s == StatusFailed }

type Payment struct {
	ID                uint64   `gorm:"primaryKey;column:id" json:"id"`
	LoanApplicationID uint64   `gorm:"index:idx_payments_application;not null" json:"loan_application_id"`
	UserID            uint64   `gorm:"index" json:"user_id"`
	AmountCents       int64    `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Currency          string   `gorm:"size:3;default:'USD'" json:"currency"`
	Method            Method   `gorm:"type:enum('card','crypto')" json:"method"`
	Provider          Provider `gorm:"type:enum('authorizenet','crypto')" json:"provider"`

	// Card capture details.
	ProviderRef string `gorm:"size:255" json:"provider_ref,omitempty"`
	CardLast4   string `gorm:"size:4" json:"card_last4,omitempty"`
	CardBrand   string `gorm:"size:20" json:"card_brand,omitempty"`

	// Crypto details. CryptoAmount stays a string for precision.
	CryptoCurrency    string `gorm:"size:10" json:"crypto_currency,omitempty"`
	CryptoAddress     string `gorm:"size:255" json:"crypto_address,omitempty"`
	CryptoAmount      string `gorm:"size:50" json:"crypto_amount,omitempty"`
	CryptoTxHash      string `gorm:"size:255" json:"crypto_tx_hash,omitempty"`
	ConfirmationsSeen int    `gorm:"default:0" json:"confirmations_seen"`

	Status        Status `gorm:"type:enum('pending','verifying','confirmed','failed');default:'pending'" json:"status"`
	FailureReason string `gorm:"type:text" json:"failure_reason,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
