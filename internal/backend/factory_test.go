package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/config"
	"ledger/internal/storage/csvfile"
	"ledger/internal/storage/memory"
	"ledger/internal/storage/sqlite"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	cfg := config.Defaults()
	cfg.Backend = " SQLite "
	cfg.StrictLoad = true
	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bc.Type != SQLiteBackend || !bc.Strict || bc.SQLiteDBPath != cfg.SQLiteDBPath {
		t.Fatalf("unexpected backend config: %+v", bc)
	}

	cfg.Backend = "sheets"
	_, err = FromAppConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "[csv sqlite memory]") {
		t.Fatalf("expected error listing valid backends, got %v", err)
	}
}

func TestFactoryOpen(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)
	dir := t.TempDir()

	res, err := f.Open(ctx, Config{Type: CSVBackend, LedgerFile: filepath.Join(dir, "e.csv")})
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if _, ok := res.Store.(*csvfile.Store); !ok || res.Close() != nil {
		t.Fatalf("csv: unexpected store %T", res.Store)
	}

	res, err = f.Open(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "l.db")})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, ok := res.Store.(*sqlite.Repository); !ok {
		t.Fatalf("sqlite: unexpected store %T", res.Store)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("sqlite close: %v", err)
	}

	res, err = f.Open(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := res.Store.(*memory.Store); !ok {
		t.Fatalf("memory: unexpected store %T", res.Store)
	}

	if _, err := f.Open(ctx, Config{Type: CSVBackend}); err == nil {
		t.Fatal("expected error for csv without file")
	}
	if _, err := f.Open(ctx, Config{Type: "sheets"}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
