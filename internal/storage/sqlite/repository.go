// Package sqlite stores the ledger in a single SQLite table. A save replaces
// the table contents inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db     *sql.DB
	path   string
	opts   storage.Options
	logger *log.Logger
}

var _ storage.Store = (*Repository)(nil)

func NewRepository(dbPath string, opts storage.Options, logger *log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The ledger has a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Debug("Schema up to date", log.FieldOperation, log.OpMigrate, log.FieldPath, dbPath)

	return &Repository{
		db:     db,
		path:   dbPath,
		opts:   opts,
		logger: logger,
	}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Location() string {
	if abs, err := filepath.Abs(r.path); err == nil {
		return abs
	}
	return r.path
}

// Load reads entries in insertion order and applies the shared row policy.
func (r *Repository) Load(ctx context.Context) (storage.LoadResult, error) {
	var res storage.LoadResult

	rows, err := r.db.QueryContext(ctx,
		`SELECT date, category, amount, description FROM entries ORDER BY id`)
	if err != nil {
		return res, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	row := 0
	for rows.Next() {
		row++
		var date, category, amount, description string
		if err := rows.Scan(&date, &category, &amount, &description); err != nil {
			return storage.LoadResult{}, fmt.Errorf("scan entry: %w", err)
		}
		e, derr := storage.DecodeRow(row, date, category, amount, description)
		if cerr := res.Collect(e, derr, r.opts); cerr != nil {
			return storage.LoadResult{}, fmt.Errorf("load ledger %s: %w", r.path, cerr)
		}
		if derr != nil {
			r.logger.WarnContext(ctx, "Skipping malformed ledger row",
				log.FieldPath, r.path, log.FieldRow, row, log.FieldError, derr)
		}
	}
	if err := rows.Err(); err != nil {
		return storage.LoadResult{}, fmt.Errorf("iterate entries: %w", err)
	}

	r.logger.InfoContext(ctx, "Ledger loaded from SQLite",
		log.FieldPath, r.path,
		log.FieldCount, len(res.Entries),
		log.FieldSkipped, len(res.Skipped))
	return res, nil
}

// Save replaces every stored entry with the valid ones given.
func (r *Repository) Save(ctx context.Context, entries []core.Entry) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (date, category, amount, description) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, e := range entries {
		if !e.IsValid() {
			continue
		}
		row := storage.EncodeRow(e)
		if _, err := stmt.ExecContext(ctx, row[0], row[1], row[2], row[3]); err != nil {
			return 0, fmt.Errorf("insert entry: %w", err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit entries: %w", err)
	}

	r.logger.InfoContext(ctx, "Ledger saved to SQLite",
		log.FieldPath, r.path,
		log.FieldCount, written,
		log.FieldSkipped, len(entries)-written)
	return written, nil
}
