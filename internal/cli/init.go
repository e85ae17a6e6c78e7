// Package cli provides the initialization shared by the ledger commands:
// logging, configuration, store selection and interrupt handling.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ledger/internal/backend"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/services"
)

// Overrides carries command-line values that take precedence over the
// environment and the config file. Nil or empty fields are not applied.
type Overrides struct {
	ConfigFile string
	LedgerFile string
	Backend    string
	Strict     *bool
	Debug      bool
}

// SetupLogger builds the application logger writing to w and installs it as
// the slog default.
func SetupLogger(level string, debug bool, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if debug {
		lvl = slog.LevelDebug
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	if w != nil {
		cfg.Output = w
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadAndValidateConfig loads .env, the optional YAML file and the
// environment, applies the overrides and validates the result.
func LoadAndValidateConfig(o Overrides) (*config.Config, error) {
	if err := config.LoadEnvFile(""); err != nil {
		return nil, err
	}
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	if o.LedgerFile != "" {
		cfg.LedgerFile = o.LedgerFile
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.Strict != nil {
		cfg.StrictLoad = *o.Strict
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenSession opens the configured store and wraps it in a session. The
// returned cleanup must be called once the session is done.
func OpenSession(ctx context.Context, logger *log.Logger, cfg *config.Config) (*services.Session, func(), error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).Open(ctx, bc)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", bc.Type, err)
	}
	cleanup := func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to close store", log.FieldBackend, bc.Type.String(), log.FieldError, err)
		}
	}
	logger.DebugContext(ctx, "Store opened",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, bc.Type.String(),
		log.FieldPath, res.Store.Location())
	sessionLogger := logger.With(log.FieldBackend, bc.Type.String())
	return services.NewSession(res.Store, services.WithLogger(sessionLogger)), cleanup, nil
}

// InterruptContext returns a context cancelled on SIGINT or SIGTERM.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
