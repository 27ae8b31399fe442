package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyAmount is returned for blank amount strings.
	ErrEmptyAmount = errors.New("amount is empty")
	// ErrFractionalAmount is returned for amounts below the smallest unit.
	ErrFractionalAmount = errors.New("amount must be an integer in the smallest unit")
)

// ParseAmount converts a decimal string into an integral amount.
// Exponent forms ("1e18") and integral fractions ("10.00") are accepted;
// anything with a non-zero fractional part is rejected. The sign is kept so
// callers can decide how to treat non-positive amounts.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !IsIntegral(d) {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, ErrFractionalAmount)
	}
	return d.Truncate(0), nil
}

// IsIntegral reports whether d has no fractional part.
func IsIntegral(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// FormatAmount renders an amount as a plain base-10 integer string.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(0)
}
