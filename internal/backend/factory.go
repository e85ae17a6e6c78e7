package backend

import (
	"context"
	"fmt"

	"ledger/internal/log"
	"ledger/internal/storage"
	"ledger/internal/storage/csvfile"
	"ledger/internal/storage/memory"
	"ledger/internal/storage/sqlite"
)

// CleanupFunc releases whatever the store holds open.
type CleanupFunc func() error

// Result contains the store and an optional cleanup function.
type Result struct {
	Store   storage.Store
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory opens stores based on configuration
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Open returns the store selected by config.
func (f *Factory) Open(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	opts := storage.Options{Strict: config.Strict}

	switch config.Type {
	case CSVBackend:
		store := csvfile.New(config.LedgerFile, opts, f.logger)
		f.logger.DebugContext(ctx, "Initialized csv backend",
			log.FieldPath, config.LedgerFile, log.FieldStrict, config.Strict)
		return &Result{Store: store}, nil

	case SQLiteBackend:
		repo, err := sqlite.NewRepository(config.SQLiteDBPath, opts, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.DebugContext(ctx, "Initialized SQLite backend",
			log.FieldPath, config.SQLiteDBPath, log.FieldStrict, config.Strict)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		f.logger.DebugContext(ctx, "Initialized memory backend")
		return &Result{Store: memory.New()}, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}
