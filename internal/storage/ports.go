// Package storage defines the ledger persistence port and the row decoding
// policy shared by every backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ledger/internal/core"
)

// Columns is the header of the persisted ledger, in file order.
var Columns = []string{"date", "category", "amount", "description"}

// ErrMalformedRow marks a stored row whose amount is not numeric.
var ErrMalformedRow = errors.New("malformed row")

type (
	// Store loads and saves the whole ledger.
	Store interface {
		// Load returns the stored entries in their stored order. A missing
		// ledger is an empty result, not an error.
		Load(ctx context.Context) (LoadResult, error)
		// Save replaces the stored ledger with the valid entries, in order,
		// and returns how many were written.
		Save(ctx context.Context, entries []core.Entry) (int, error)
		// Location names where the ledger lives, for messages.
		Location() string
	}

	// LoadResult carries the entries read and the rows left out.
	LoadResult struct {
		Entries []core.Entry
		Skipped []RowError
	}

	// RowError describes one stored row that could not be decoded. Row is
	// 1-based and counts data rows only.
	RowError struct {
		Row int
		Err error
	}

	// Options tunes how a backend decodes stored rows.
	Options struct {
		// Strict aborts a whole load on the first malformed row instead of
		// skipping it.
		Strict bool
	}
)

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// DecodeRow turns stored text fields into an entry. Fields are trimmed and
// a blank amount reads as zero. Only a non-numeric amount is an error;
// rows with a bad date or empty text are kept for the validator to exclude.
func DecodeRow(row int, date, category, amount, description string) (core.Entry, error) {
	e := core.Entry{
		Date:        strings.TrimSpace(date),
		Category:    strings.TrimSpace(category),
		Amount:      strings.TrimSpace(amount),
		Description: strings.TrimSpace(description),
	}
	if e.Amount == "" {
		e.Amount = "0"
	}
	if _, err := core.ParseAmount(e.Amount); err != nil {
		return core.Entry{}, RowError{Row: row, Err: fmt.Errorf("%w: amount %q", ErrMalformedRow, e.Amount)}
	}
	return e, nil
}

// Collect applies the load policy to one decoded row: in strict mode the
// error aborts the load, otherwise the row is recorded as skipped.
func (r *LoadResult) Collect(e core.Entry, err error, opts Options) error {
	if err == nil {
		r.Entries = append(r.Entries, e)
		return nil
	}
	var rowErr RowError
	if !errors.As(err, &rowErr) {
		return err
	}
	if opts.Strict {
		return err
	}
	r.Skipped = append(r.Skipped, rowErr)
	return nil
}

// EncodeRow is the stored form of a valid entry.
func EncodeRow(e core.Entry) []string {
	amount, _ := e.Value()
	return []string{
		strings.TrimSpace(e.Date),
		strings.TrimSpace(e.Category),
		core.FormatAmount(amount),
		strings.TrimSpace(e.Description),
	}
}
