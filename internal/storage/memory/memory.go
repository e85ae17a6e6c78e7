package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// Store keeps the last saved ledger in process memory. Nothing survives a
// restart; it backs tests and LEDGER_BACKEND=memory.
type Store struct {
	mu    sync.Mutex
	items []core.Entry
	saves int
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewSeeded starts with entries already "on disk". Seeds go through the
// same decoding as a file would, so unparseable amounts are dropped.
func NewSeeded(entries ...core.Entry) *Store {
	s := New()
	for i, e := range entries {
		decoded, err := storage.DecodeRow(i+1, e.Date, e.Category, e.Amount, e.Description)
		if err != nil {
			continue
		}
		s.items = append(s.items, decoded)
	}
	return s
}

func (s *Store) Load(_ context.Context) (storage.LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.LoadResult{Entries: append([]core.Entry(nil), s.items...)}, nil
}

// Save keeps the valid entries in their stored form.
func (s *Store) Save(_ context.Context, entries []core.Entry) (int, error) {
	kept := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsValid() {
			continue
		}
		row := storage.EncodeRow(e)
		kept = append(kept, core.Entry{Date: row[0], Category: row[1], Amount: row[2], Description: row[3]})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = kept
	s.saves++
	return len(kept), nil
}

func (s *Store) Location() string {
	return "memory"
}

// Saves reports how many times Save was called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
