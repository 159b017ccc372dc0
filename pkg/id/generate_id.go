package id

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewTrackingNumber returns a public tracking number in the format
// AL-YYYYMMDD-XXXXX. Uniqueness is the caller's problem (regenerate on
// collision).
func NewTrackingNumber(now time.Time) string {
	b := make([]byte, 5)
	_, _ = rand.Read(b)
	code := make([]byte, 5)
	for i, v := range b {
		code[i] = trackingAlphabet[int(v)%len(trackingAlphabet)]
	}
	return "AL-" + now.Format("20060102") + "-" + string(code)
}
