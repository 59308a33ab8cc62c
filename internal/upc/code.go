// Package upc implements the UPC symbol-encoding core: checksum validation of
// numeric product codes and table-driven encoding of validated codes into
// bar/space module sequences per the UPC-A and UPC-E symbologies.
package upc

import (
	"errors"
	"fmt"
)

// Code lengths accepted by Validate.
const (
	// UPCALength is the digit count of a full-length UPC-A code.
	UPCALength = 12

	// UPCELength is the digit count of a compressed UPC-E code,
	// including the number-system digit and the check digit.
	UPCELength = 8
)

// Validation errors. All are user-input errors, recoverable at the item level.
var (
	// ErrInvalidLength is returned for codes that are not 8 or 12 digits long.
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidCharacter is returned for codes containing non-digit characters.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrChecksumMismatch is returned when the final digit does not match
	// the computed check value for the preceding digits.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Code is a validated numeric product code: exactly 8 or 12 ASCII decimal
// digits whose final digit equals the modulo-10 check value of the rest.
// A Code is only ever produced by Validate and is never mutated.
type Code string

// String returns the digit string.
func (c Code) String() string {
	return string(c)
}

// IsCompressed reports whether the code is the 8-digit UPC-E form.
func (c Code) IsCompressed() bool {
	return len(c) == UPCELength
}

// Validate checks raw against the UPC code invariants and returns it as a
// Code. Nothing is stripped or normalized: any non-digit character rejects
// the input. Length is checked first so that garbage of the wrong length
// reports ErrInvalidLength regardless of its content.
func Validate(raw string) (Code, error) {
	if len(raw) != UPCALength && len(raw) != UPCELength {
		return "", fmt.Errorf("%w: got %d digits, want 8 or 12", ErrInvalidLength, len(raw))
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return "", fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, raw[i], i)
		}
	}

	want := CheckDigit(raw[:len(raw)-1])
	got := int(raw[len(raw)-1] - '0')
	if got != want {
		return "", fmt.Errorf("%w: got %d, want %d", ErrChecksumMismatch, got, want)
	}

	return Code(raw), nil
}

// CheckDigit computes the modulo-10 check value for a digit string: digits
// are weighted alternately 3 and 1 starting from the first, summed, and the
// check is (10 - sum mod 10) mod 10. The input must contain only ASCII
// digits and excludes the check digit itself.
func CheckDigit(digits string) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[i] - '0')
		if i%2 == 0 {
			sum += d * 3
		} else {
			sum += d
		}
	}
	return (10 - sum%10) % 10
}
