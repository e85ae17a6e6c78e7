package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/storage"
	"ledger/internal/storage/memory"
)

type failingStore struct {
	loadErr error
	saveErr error
}

func (f failingStore) Load(context.Context) (storage.LoadResult, error) {
	return storage.LoadResult{}, f.loadErr
}

func (f failingStore) Save(context.Context, []core.Entry) (int, error) {
	return 0, f.saveErr
}

func (f failingStore) Location() string { return "broken" }

func fixedClock() time.Time {
	return time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)
}

func aug() core.YearMonth { return core.YearMonth{Year: 2025, Month: time.August} }

func TestSessionLoadAndAdd(t *testing.T) {
	store := memory.NewSeeded(
		core.Entry{Date: "2025-08-01", Category: "Food", Amount: "12.5", Description: "Lunch"},
		core.Entry{Date: "bad", Category: "Food", Amount: "3", Description: "kept but invalid"},
	)
	s := NewSession(store, WithClock(fixedClock))

	res, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Entries) != 2 || len(s.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(s.Entries()))
	}

	if err := s.Add(core.Entry{Date: "2025-08-02", Category: "Travel", Amount: "7", Description: "Bus"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := s.Summary(aug()).Total; !got.Equal(decimal.RequireFromString("19.5")) {
		t.Fatalf("expected total 19.5, got %s", got)
	}
}

func TestSessionAddRejects(t *testing.T) {
	s := NewSession(memory.New())
	tests := []struct {
		name  string
		entry core.Entry
		want  error
	}{
		{"empty category", core.Entry{Date: "2025-08-01", Amount: "1", Description: "x"}, core.ErrEmptyCategory},
		{"bad date", core.Entry{Date: "2025-13-01", Category: "a", Amount: "1", Description: "x"}, core.ErrInvalidDate},
		{"negative", core.Entry{Date: "2025-08-01", Category: "a", Amount: "-1", Description: "x"}, core.ErrNegativeAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Add(tt.entry); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(s.Entries()) != 0 {
		t.Fatalf("rejected entries must not be added")
	}
}

func TestSessionLoadFailureLeavesEmptyLedger(t *testing.T) {
	boom := errors.New("boom")
	s := NewSession(failingStore{loadErr: boom})
	s.entries = []core.Entry{{Date: "2025-08-01", Category: "a", Amount: "1", Description: "x"}}

	if _, err := s.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if len(s.Entries()) != 0 {
		t.Fatalf("expected empty ledger after failed load")
	}
}

func TestSessionSaveFailureKeepsLedger(t *testing.T) {
	boom := errors.New("disk full")
	s := NewSession(failingStore{saveErr: boom})
	if err := s.Add(core.Entry{Date: "2025-08-01", Category: "a", Amount: "1", Description: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if len(s.Entries()) != 1 {
		t.Fatalf("ledger must survive a failed save")
	}
}

func TestSessionTrack(t *testing.T) {
	s := NewSession(memory.New(), WithClock(fixedClock))
	if _, err := s.Track(aug()); !errors.Is(err, ErrNoBudget) {
		t.Fatalf("expected ErrNoBudget, got %v", err)
	}
	if err := s.SetBudget(aug(), decimal.NewFromInt(-5)); !errors.Is(err, core.ErrNegativeAmount) {
		t.Fatalf("expected negative budget to be rejected, got %v", err)
	}

	if err := s.SetBudget(s.CurrentMonth(), decimal.NewFromInt(100)); err != nil {
		t.Fatal(err)
	}
	_ = s.Add(core.Entry{Date: "2025-08-03", Category: "Food", Amount: "12.50", Description: "Lunch"})
	_ = s.Add(core.Entry{Date: "2025-07-30", Category: "Food", Amount: "99", Description: "other month"})

	status, err := s.Track(aug())
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if got := status.Message(); got != "You have 87.50 left for the month." {
		t.Fatalf("unexpected message %q", got)
	}

	if err := s.SetBudget(aug(), decimal.NewFromInt(10)); err != nil {
		t.Fatal(err)
	}
	status, _ = s.Track(aug())
	if !status.OverBudget || status.Message() != "You have exceeded your budget by 2.50!" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestSessionSaveThenReload(t *testing.T) {
	store := memory.New()
	s := NewSession(store)
	_ = s.Add(core.Entry{Date: "2025-08-03", Category: "Food", Amount: "12.5", Description: "Lunch"})
	n, err := s.Save(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("save: n=%d err=%v", n, err)
	}

	again := NewSession(store)
	if _, err := again.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := again.Entries()
	if len(got) != 1 || got[0].Amount != "12.50" {
		t.Fatalf("unexpected reloaded ledger %+v", got)
	}
	if again.Location() != "memory" {
		t.Fatalf("unexpected location %q", again.Location())
	}
}

func TestSessionSummaryReflectsLaterAdds(t *testing.T) {
	s := NewSession(memory.New())
	_ = s.Add(core.Entry{Date: "2025-08-03", Category: "Food", Amount: "5", Description: "a"})
	if got := s.Summary(aug()).Count; got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	_ = s.Add(core.Entry{Date: "2025-08-04", Category: "Food", Amount: "5", Description: "b"})
	ov := s.Summary(aug())
	if ov.Count != 2 || !ov.Total.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("stale overview: %+v", ov)
	}
}

func TestSessionSummaryIsNotSharedWithCaller(t *testing.T) {
	s := NewSession(memory.New())
	_ = s.Add(core.Entry{Date: "2025-08-03", Category: "Food", Amount: "5", Description: "a"})

	first := s.Summary(aug())
	first.ByCategory[0].Name = "Changed"
	first.ByCategory[0].Amount = decimal.NewFromInt(999)

	second := s.Summary(aug())
	if second.ByCategory[0].Name != "Food" || !second.ByCategory[0].Amount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("cached overview was modified through a returned value: %+v", second.ByCategory)
	}
}
