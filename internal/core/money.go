// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Parsing rounds once to two decimal
// places; all later arithmetic is exact.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount keeps cents*100 well inside int64.
var maxAmount = decimal.New(1, 15)

// ParseAmount converts a decimal string to a strictly positive Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds half away from zero to whole cents.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,345") -> 1235 cents
//	ParseAmount("0")      -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	cents, err := parseCents(s)
	if err != nil {
		return Money{}, err
	}
	if cents <= 0 {
		return Money{}, invalid(ErrInvalidAmount)
	}
	return Money{Cents: cents}, nil
}

// ParseBalance is like ParseAmount but accepts zero.
func ParseBalance(s string) (Money, error) {
	cents, err := parseCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

func parseCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, invalid(ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, invalid(ErrInvalidAmount)
	}
	if d.IsNegative() || d.GreaterThanOrEqual(maxAmount) {
		return 0, invalid(ErrInvalidAmount)
	}
	return d.Round(2).Shift(2).IntPart(), nil
}

// Cents builds Money from a whole number of cents.
func Cents(c int64) Money {
	return Money{Cents: c}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return invalid(ErrInvalidAmount)
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) IsZero() bool { return m.Cents == 0 }

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats with exactly two decimals, e.g. "1200.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Float64 is for display sinks that need a number, never for arithmetic.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}
