// Package core holds the ledger domain: entries and their validation,
// per-month aggregation and budget tracking.
//
// This file parses and formats monetary amounts. Amounts are decimals;
// nothing in the ledger does float arithmetic.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses any numeric amount, negative values included. It is
// the check the validator applies to stored entries.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseInputAmount parses an amount typed by the user. A decimal comma is
// accepted (12,50) and negative values are refused.
//
//	ParseInputAmount("12.50") -> 12.5, nil
//	ParseInputAmount("12,50") -> 12.5, nil
//	ParseInputAmount("-3")    -> 0, ErrNegativeAmount
func ParseInputAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
