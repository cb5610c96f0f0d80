// Package domain provides the strict configuration model consumed by the scheduler.
// Every value in this package is fully resolved: defaults are applied, secrets carry
// their plaintext together with a secure flag, and id references point into the
// configuration snapshot they were resolved against.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// CaseInsensitiveString is a name compared case-insensitively.
// The original casing is kept for display. The value is immutable once created.
type CaseInsensitiveString struct {
	name string
}

// NewCaseInsensitiveString creates a CaseInsensitiveString from s.
func NewCaseInsensitiveString(s string) CaseInsensitiveString {
	return CaseInsensitiveString{name: s}
}

// NewCaseInsensitiveStrings wraps every entry of names.
func NewCaseInsensitiveStrings(names []string) []CaseInsensitiveString {
	if len(names) == 0 {
		return nil
	}
	out := make([]CaseInsensitiveString, len(names))
	for i, n := range names {
		out[i] = NewCaseInsensitiveString(n)
	}
	return out
}

// String returns the name with its original casing.
func (c CaseInsensitiveString) String() string {
	return c.name
}

// ToLower returns the case-folded comparison key.
func (c CaseInsensitiveString) ToLower() string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Fold().String(c.name)
}

// Equal reports whether both names have the same case-folded key.
func (c CaseInsensitiveString) Equal(other CaseInsensitiveString) bool {
	return c.ToLower() == other.ToLower()
}

// EqualString reports whether the name matches s ignoring case.
func (c CaseInsensitiveString) EqualString(s string) bool {
	return c.Equal(NewCaseInsensitiveString(s))
}

// IsBlank reports whether the name is empty or whitespace.
func (c CaseInsensitiveString) IsBlank() bool {
	return strings.TrimSpace(c.name) == ""
}

// MarshalText implements encoding.TextMarshaler.
func (c CaseInsensitiveString) MarshalText() ([]byte, error) {
	return []byte(c.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CaseInsensitiveString) UnmarshalText(text []byte) error {
	c.name = string(text)
	return nil
}

// maskedValue is what a secure value prints as.
const maskedValue = "****"

// SecureValue is a resolved scalar together with whether it was supplied encrypted.
type SecureValue struct {
	// Value is the plaintext.
	Value string

	// Secure is true when the value was supplied in encrypted form.
	Secure bool
}

// PlainValue creates a non-secure value.
func PlainValue(v string) SecureValue {
	return SecureValue{Value: v}
}

// SecretValue creates a secure value holding the decrypted plaintext v.
func SecretValue(v string) SecureValue {
	return SecureValue{Value: v, Secure: true}
}

// String returns the value, masked when secure.
func (s SecureValue) String() string {
	if s.Secure {
		return maskedValue
	}
	return s.Value
}

// DisplayValue is an alias for String used by report rendering.
func (s SecureValue) DisplayValue() string {
	return s.String()
}
