package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAndValidateConfigOverrides(t *testing.T) {
	t.Setenv("LEDGER_FILE", "from-env.csv")
	t.Setenv("LEDGER_STRICT_LOAD", "true")

	cfg, err := LoadAndValidateConfig(Overrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LedgerFile != "from-env.csv" || !cfg.StrictLoad {
		t.Fatalf("environment not applied: %+v", cfg)
	}

	off := false
	cfg, err = LoadAndValidateConfig(Overrides{LedgerFile: "flag.csv", Strict: &off})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LedgerFile != "flag.csv" || cfg.StrictLoad {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	if _, err := LoadAndValidateConfig(Overrides{Backend: "sheets"}); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger("warn", false, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}

	buf.Reset()
	logger, _ = SetupLogger("warn", true, &buf)
	logger.Debug("debug on")
	if !strings.Contains(buf.String(), "debug on") {
		t.Fatalf("debug flag should lower the level: %q", buf.String())
	}

	if _, err := SetupLogger("loud", false, &buf); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestOpenSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.csv")
	t.Setenv("LEDGER_FILE", path)
	cfg, err := LoadAndValidateConfig(Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	logger, _ := SetupLogger("error", false, &bytes.Buffer{})

	session, cleanup, err := OpenSession(context.Background(), logger, cfg)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	defer cleanup()
	if session.Location() != path {
		t.Fatalf("expected location %s, got %s", path, session.Location())
	}
}
