package domain

import (
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// NIT identifies a merchant by its tax ID.
// Invariant: exactly 10 ASCII digits.
//
// Usage: construct via ParseNIT at trust boundaries to enforce the format;
// direct casting bypasses validation.
type NIT string

// ParseNIT constructs a NIT from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, has a length
// other than 10, or contains a non-digit character.
func ParseNIT(s string) (NIT, error) {
	if s == "" {
		return "", pkgerrors.New(pkgerrors.CodeInvalidInput, "nit cannot be empty")
	}
	if !ValidNIT(s) {
		return "", pkgerrors.New(pkgerrors.CodeInvalidInput, "nit must be exactly 10 digits")
	}
	return NIT(s), nil
}

// ValidNIT reports whether s is exactly 10 ASCII digits.
func ValidNIT(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String returns the string representation of the NIT.
func (n NIT) String() string {
	return string(n)
}
