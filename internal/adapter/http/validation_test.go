package http

import (
	"errors"
	"strings"
	"testing"
)

func TestTxHashValidation(t *testing.T) {
	type P struct {
		TxHash string `validate:"txhash"`
	}
	cv := NewValidator()

	// valid: 64 hex chars, optional 0x prefix, any case
	for _, s := range []string{
		strings.Repeat("a", 64),
		"0x" + strings.Repeat("b", 64),
		"0x" + strings.Repeat("A", 32) + strings.Repeat("f", 32),
	} {
		if err := cv.Validate(P{TxHash: s}); err != nil {
			t.Fatalf("expected valid txhash %q, got err: %v", s, err)
		}
	}

	// invalid samples
	for _, s := range []string{
		"",                            // empty
		strings.Repeat("a", 63),       // too short
		strings.Repeat("a", 65),       // too long
		"0x" + strings.Repeat("g", 64),// non-hex char
		"0X" + strings.Repeat("a", 64),// uppercase prefix
	} {
		err := cv.Validate(P{TxHash: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "TxHash", "64-char hex transaction hash") {
			t.Fatalf("expected txhash message for %q, got: %+v", s, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name   string `validate:"required"`
		Email  string `validate:"required,email"`
		Amount int64  `validate:"gt=0"`
		Method string `validate:"oneof=card crypto"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{
		Name:   "",
		Email:  "not-an-email",
		Amount: 0,
		Method: "wire",
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Email", "valid email address") {
		t.Fatalf("missing email message for Email: %+v", fe)
	}
	if !containsFieldMsg(fe, "Amount", "greater than 0") {
		t.Fatalf("missing gt message for Amount: %+v", fe)
	}
	if !containsFieldMsg(fe, "Method", "must be one of: card crypto") {
		t.Fatalf("missing oneof message for Method: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
