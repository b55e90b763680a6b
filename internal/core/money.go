// Package core provides the transaction domain model and amount parsing.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmountScale is the most fractional digits ParseAmount accepts.
const MaxAmountScale = 8

// MaxAmount is the exclusive upper bound of ParseAmount.
var MaxAmount = decimal.New(1, 15)

// ParseAmount converts user input into a strictly positive decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// surrounding whitespace. Zero, negative and non-numeric input all return
// ErrInvalidAmount, as do exponent notation, amounts of MaxAmount or more and
// more than MaxAmountScale fractional digits.
//
// Examples:
//
//	ParseAmount("42.5")  -> 42.5, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-5")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() || d.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Exponent() < -MaxAmountScale {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// MustAmount parses a literal amount and panics on failure. Used for fixtures.
func MustAmount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
