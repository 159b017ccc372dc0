// Package token issues and verifies the HMAC-signed capability tokens used
// by admin email actions. A token authorizes exactly one action on one
// application and expires after a fixed TTL; there is no server-side state.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

const DefaultTTL = 72 * time.Hour

// Claims is the signed payload. Field names are part of the wire format.
type Claims struct {
	ApplicationID uint64 `json:"id"`
	Action        Action `json:"action"`
	ExpiresAtMs   int64  `json:"exp"`
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a token service around an injected secret. A zero ttl
// means DefaultTTL.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the wall clock; tests use this to cross the TTL.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue returns "base64url(payload).base64url(signature)". The expiry is an
// absolute timestamp so verification needs nothing but wall time.
func (s *Service) Issue(applicationID uint64, action Action) string {
	claims := Claims{
		ApplicationID: applicationID,
		Action:        action,
		ExpiresAtMs:   s.now().Add(s.ttl).UnixMilli(),
	}
	payload, _ := json.Marshal(claims)
	data := base64.RawURLEncoding.EncodeToString(payload)
	return data + "." + base64.RawURLEncoding.EncodeToString(s.sign(data))
}

// Verify checks structure, signature (constant time), payload and expiry, in
// that order. Every failure collapses to ok=false: callers must not be able
// to tell a forged token from an expired one.
func (s *Service) Verify(tok string) (*Claims, bool) {
	data, sig, found := strings.Cut(tok, ".")
	if !found || data == "" || sig == "" {
		return nil, false
	}
	gotSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return nil, false
	}
	if !hmac.Equal(gotSig, s.sign(data)) {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, false
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, false
	}
	if claims.Action != ActionApprove && claims.Action != ActionReject {
		return nil, false
	}
	if claims.ExpiresAtMs < s.now().UnixMilli() {
		return nil, false
	}
	return &claims, true
}

func (s *Service) sign(data string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
