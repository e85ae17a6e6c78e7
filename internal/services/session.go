// Package services holds the session that ties the ledger, the monthly
// budgets and the backing store together for one run of the program.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// overviewCacheSize bounds how many month overviews are memoized.
const overviewCacheSize = 24

// ErrNoBudget is returned by Track when the month has no budget set.
var ErrNoBudget = errors.New("no budget set for month")

// Session owns the in-memory ledger and budgets. It is not safe for
// concurrent use; the shell and the commands drive it from one goroutine.
type Session struct {
	store   storage.Store
	logger  *log.Logger
	now     func() time.Time
	entries []core.Entry
	budgets map[core.YearMonth]decimal.Decimal

	// Cleared whenever the ledger changes.
	overviews *cache.LRU[core.YearMonth, core.MonthOverview]
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now, used to resolve the current month.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSession(store storage.Store, opts ...Option) *Session {
	s := &Session{
		store:   store,
		logger:  log.Discard(),
		now:     time.Now,
		budgets: make(map[core.YearMonth]decimal.Decimal),

		overviews: cache.NewLRU[core.YearMonth, core.MonthOverview](overviewCacheSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentSession)
	return s
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// CurrentMonth is the month containing Now.
func (s *Session) CurrentMonth() core.YearMonth {
	return core.MonthOf(s.now())
}

// Load replaces the ledger with the store's contents. On error the ledger
// is left empty and the error is returned for the caller to report.
func (s *Session) Load(ctx context.Context) (storage.LoadResult, error) {
	res, err := s.store.Load(ctx)
	s.overviews.Purge()
	if err != nil {
		s.entries = nil
		s.logger.ErrorContext(ctx, "Failed to load ledger",
			log.FieldOperation, log.OpLoad,
			log.FieldPath, s.store.Location(),
			log.FieldError, err)
		return storage.LoadResult{}, err
	}
	s.entries = res.Entries
	s.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldCount, len(res.Entries),
		log.FieldSkipped, len(res.Skipped))
	return res, nil
}

// Add appends a validated, non-negative entry to the ledger.
func (s *Session) Add(e core.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("add entry: %w", err)
	}
	if amount, _ := e.Value(); amount.IsNegative() {
		return fmt.Errorf("add entry: %w", core.ErrNegativeAmount)
	}
	s.entries = append(s.entries, e)
	s.overviews.Purge()
	s.logger.Debug("Entry added",
		log.FieldOperation, log.OpAppend,
		log.FieldDate, e.Date,
		log.FieldCategory, e.Category,
		log.FieldAmount, e.Amount)
	return nil
}

// Entries returns a copy of the ledger in insertion order, invalid entries
// included.
func (s *Session) Entries() []core.Entry {
	return append([]core.Entry(nil), s.entries...)
}

// SetBudget sets or replaces the budget for a month.
func (s *Session) SetBudget(ym core.YearMonth, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("set budget: %w", core.ErrNegativeAmount)
	}
	s.budgets[ym] = amount
	s.logger.Debug("Budget set",
		log.FieldOperation, log.OpBudget,
		log.FieldMonth, ym.String(),
		log.FieldBudget, core.FormatAmount(amount))
	return nil
}

// Budget returns the budget for a month, if one was set.
func (s *Session) Budget(ym core.YearMonth) (decimal.Decimal, bool) {
	b, ok := s.budgets[ym]
	return b, ok
}

// Track compares the month's budget with what the ledger spent in it.
func (s *Session) Track(ym core.YearMonth) (core.BudgetStatus, error) {
	budget, ok := s.budgets[ym]
	if !ok {
		return core.BudgetStatus{}, fmt.Errorf("%w: %s", ErrNoBudget, ym)
	}
	status := core.Track(budget, s.Summary(ym).Total)
	s.logger.Debug("Budget tracked",
		log.FieldOperation, log.OpTrack,
		log.FieldMonth, ym.String(),
		log.FieldBudget, core.FormatAmount(status.Budget),
		log.FieldSpent, core.FormatAmount(status.Spent))
	return status, nil
}

// Summary aggregates the ledger for one month. The caller owns the
// returned ByCategory slice.
func (s *Session) Summary(ym core.YearMonth) core.MonthOverview {
	ov, ok := s.overviews.Get(ym)
	if !ok {
		ov = core.Summarize(s.entries, ym)
		s.overviews.Set(ym, ov)
	}
	ov.ByCategory = append([]core.CategoryAmount(nil), ov.ByCategory...)
	return ov
}

// Save writes the valid entries to the store. The in-memory ledger is kept
// as is whether or not the save succeeds.
func (s *Session) Save(ctx context.Context) (int, error) {
	n, err := s.store.Save(ctx, s.entries)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save ledger",
			log.FieldOperation, log.OpSave,
			log.FieldPath, s.store.Location(),
			log.FieldError, err)
		return 0, err
	}
	return n, nil
}

// Location describes where the ledger is stored.
func (s *Session) Location() string {
	return s.store.Location()
}
