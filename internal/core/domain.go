package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	// CurrentMonthToken selects the running session's month in month prompts.
	CurrentMonthToken = "current"
)

type (
	// Entry is one recorded expense. Fields are kept as text, exactly as
	// entered or stored, so a malformed stored row can still be held in the
	// ledger and excluded downstream.
	Entry struct {
		Date        string
		Category    string
		Amount      string
		Description string
	}

	// YearMonth identifies a calendar month; the day is irrelevant.
	YearMonth struct {
		Year  int
		Month time.Month
	}
)

var (
	ErrEmptyDate        = errors.New("empty date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyAmount      = errors.New("empty amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth     = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
)

// NewEntry builds an entry from already parsed values.
func NewEntry(date time.Time, category string, amount decimal.Decimal, description string) Entry {
	return Entry{
		Date:        date.Format(DateLayout),
		Category:    strings.TrimSpace(category),
		Amount:      amount.String(),
		Description: strings.TrimSpace(description),
	}
}

// Validate reports the first reason the entry is not well-formed.
// Negative amounts pass: only interactive input refuses them.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Date) == "" {
		return ErrEmptyDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Amount) == "" {
		return ErrEmptyAmount
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	if _, err := ParseAmount(e.Amount); err != nil {
		return err
	}
	return nil
}

// IsValid is Validate as a predicate.
func (e Entry) IsValid() bool {
	return e.Validate() == nil
}

// Time returns the parsed date of a valid entry.
func (e Entry) Time() (time.Time, bool) {
	t, err := ParseDate(e.Date)
	return t, err == nil
}

// Value returns the parsed amount of a valid entry.
func (e Entry) Value() (decimal.Decimal, bool) {
	d, err := ParseAmount(e.Amount)
	return d, err == nil
}

// Normalize returns the entry in the form it takes after a save/load cycle:
// trimmed text and an amount with two decimals.
func (e Entry) Normalize() Entry {
	out := Entry{
		Date:        strings.TrimSpace(e.Date),
		Category:    strings.TrimSpace(e.Category),
		Amount:      strings.TrimSpace(e.Amount),
		Description: strings.TrimSpace(e.Description),
	}
	if d, ok := e.Value(); ok {
		out.Amount = FormatAmount(d)
	}
	return out
}

// ParseDate accepts only the exact YYYY-MM-DD form of a real calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseYearMonth parses a YYYY-MM key.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, ErrInvalidMonth
	}
	return MonthOf(t), nil
}

// ParseMonthInput is ParseYearMonth plus the "current" token, resolved
// against now.
func ParseMonthInput(s string, now time.Time) (YearMonth, error) {
	if strings.EqualFold(strings.TrimSpace(s), CurrentMonthToken) {
		return MonthOf(now), nil
	}
	return ParseYearMonth(s)
}

// MonthOf returns the year-month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) String() string {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).Format(MonthLayout)
}

// Contains reports whether t falls inside the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}
