// Package csvfile persists the ledger as a comma separated flat file with a
// date,category,amount,description header.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

type Store struct {
	path   string
	opts   storage.Options
	logger *log.Logger
}

var _ storage.Store = (*Store)(nil)

func New(path string, opts storage.Options, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{path: path, opts: opts, logger: logger.WithComponent(log.ComponentStorage)}
}

// Location returns the absolute path when it can be resolved.
func (s *Store) Location() string {
	if abs, err := filepath.Abs(s.path); err == nil {
		return abs
	}
	return s.path
}

// Load reads the file by header name. Columns may come in any order and
// unknown columns are ignored; short rows read their missing fields as
// blank.
func (s *Store) Load(ctx context.Context) (storage.LoadResult, error) {
	var res storage.LoadResult

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.DebugContext(ctx, "Ledger file not found, starting empty", log.FieldPath, s.path)
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read ledger header: %w", err)
	}
	index := columnIndex(header)

	for row := 1; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			rerr := storage.RowError{Row: row, Err: fmt.Errorf("%w: %v", storage.ErrMalformedRow, perr)}
			if cerr := res.Collect(core.Entry{}, rerr, s.opts); cerr != nil {
				return storage.LoadResult{}, fmt.Errorf("load ledger %s: %w", s.path, cerr)
			}
			s.logger.WarnContext(ctx, "Skipping unreadable ledger row",
				log.FieldPath, s.path, log.FieldRow, row, log.FieldError, perr)
			continue
		}
		if err != nil {
			return storage.LoadResult{}, fmt.Errorf("read ledger: %w", err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		e, derr := storage.DecodeRow(row, field("date"), field("category"), field("amount"), field("description"))
		if cerr := res.Collect(e, derr, s.opts); cerr != nil {
			return storage.LoadResult{}, fmt.Errorf("load ledger %s: %w", s.path, cerr)
		}
		if derr != nil {
			s.logger.WarnContext(ctx, "Skipping malformed ledger row",
				log.FieldPath, s.path, log.FieldRow, row, log.FieldError, derr)
		}
	}

	s.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldPath, s.path,
		log.FieldCount, len(res.Entries),
		log.FieldSkipped, len(res.Skipped))
	return res, nil
}

// Save truncates the file and rewrites it. Invalid entries are left out.
// A crash mid-write can lose the file; there is no temp-file swap.
func (s *Store) Save(ctx context.Context, entries []core.Entry) (int, error) {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return 0, fmt.Errorf("create ledger: %w", err)
	}

	written, werr := write(f, entries)
	if cerr := f.Close(); werr == nil && cerr != nil {
		werr = fmt.Errorf("close ledger: %w", cerr)
	}
	if werr != nil {
		return 0, werr
	}

	s.logger.InfoContext(ctx, "Ledger saved",
		log.FieldPath, s.path,
		log.FieldCount, written,
		log.FieldSkipped, len(entries)-written)
	return written, nil
}

func write(w io.Writer, entries []core.Entry) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(storage.Columns); err != nil {
		return 0, fmt.Errorf("write ledger header: %w", err)
	}
	written := 0
	for _, e := range entries {
		if !e.IsValid() {
			continue
		}
		if err := cw.Write(storage.EncodeRow(e)); err != nil {
			return 0, fmt.Errorf("write ledger row: %w", err)
		}
		written++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush ledger: %w", err)
	}
	return written, nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return index
}
