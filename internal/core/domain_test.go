package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEntryValidate(t *testing.T) {
	good := Entry{Date: "2025-08-01", Category: "Food", Amount: "12.50", Description: "Lunch"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		e    Entry
		want error
	}{
		{"empty date", Entry{Date: "", Category: "c", Amount: "1", Description: "d"}, ErrEmptyDate},
		{"blank category", Entry{Date: "2025-08-01", Category: "  ", Amount: "1", Description: "d"}, ErrEmptyCategory},
		{"empty amount", Entry{Date: "2025-08-01", Category: "c", Amount: "", Description: "d"}, ErrEmptyAmount},
		{"empty description", Entry{Date: "2025-08-01", Category: "c", Amount: "1", Description: ""}, ErrEmptyDescription},
		{"slashes", Entry{Date: "2025/08/01", Category: "c", Amount: "1", Description: "d"}, ErrInvalidDate},
		{"single digit month", Entry{Date: "2025-8-01", Category: "c", Amount: "1", Description: "d"}, ErrInvalidDate},
		{"day first", Entry{Date: "01-08-2025", Category: "c", Amount: "1", Description: "d"}, ErrInvalidDate},
		{"no such day", Entry{Date: "2025-02-30", Category: "c", Amount: "1", Description: "d"}, ErrInvalidDate},
		{"with time", Entry{Date: "2025-08-01T10:00:00", Category: "c", Amount: "1", Description: "d"}, ErrInvalidDate},
		{"word amount", Entry{Date: "2025-08-01", Category: "c", Amount: "twelve", Description: "d"}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		err := tc.e.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if tc.e.IsValid() {
			t.Fatalf("%s: IsValid should be false", tc.name)
		}
	}
}

func TestEntryValidateAcceptsStoredNegativeAmount(t *testing.T) {
	e := Entry{Date: "2025-08-01", Category: "Refund", Amount: "-5.00", Description: "returned"}
	if !e.IsValid() {
		t.Fatalf("negative stored amount should pass validation: %v", e.Validate())
	}
}

func TestNewEntry(t *testing.T) {
	d := time.Date(2025, 8, 1, 15, 30, 0, 0, time.UTC)
	e := NewEntry(d, " Food ", decimal.RequireFromString("12.5"), " Lunch ")
	want := Entry{Date: "2025-08-01", Category: "Food", Amount: "12.5", Description: "Lunch"}
	if e != want {
		t.Fatalf("got %+v, want %+v", e, want)
	}
	if got := e.Normalize().Amount; got != "12.50" {
		t.Fatalf("normalized amount: got %q", got)
	}
}

func TestParseMonthInput(t *testing.T) {
	now := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want YearMonth
		ok   bool
	}{
		{"2025-08", YearMonth{2025, time.August}, true},
		{" 2025-12 ", YearMonth{2025, time.December}, true},
		{"current", YearMonth{2026, time.March}, true},
		{"CURRENT", YearMonth{2026, time.March}, true},
		{"2025-8", YearMonth{}, false},
		{"2025-13", YearMonth{}, false},
		{"08-2025", YearMonth{}, false},
		{"", YearMonth{}, false},
	}
	for _, tc := range cases {
		got, err := ParseMonthInput(tc.in, now)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("%q expected ErrInvalidMonth, got %v", tc.in, err)
		}
	}
	if s := (YearMonth{2025, time.August}).String(); s != "2025-08" {
		t.Fatalf("String: got %q", s)
	}
}
