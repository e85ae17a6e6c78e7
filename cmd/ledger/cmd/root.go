// Package cmd provides CLI commands for ledger.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/shell"
)

var (
	cfgFile     string
	ledgerFile  string
	backendName string
	strict      bool
	debug       bool

	appCfg *config.Config
	logger *log.Logger
)

// rootCmd runs the interactive shell when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Personal expense ledger",
	Long: `ledger records personal expenses in a flat CSV file and tracks
spending against monthly budgets.

Run without a subcommand for the interactive menu, or use the
subcommands for one-shot operations.

Example:
  ledger
  ledger add --date 2025-08-01 --category Food --amount 12.50 --description Lunch
  ledger summary --month 2025-08`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		o := cli.Overrides{
			ConfigFile: cfgFile,
			LedgerFile: ledgerFile,
			Backend:    backendName,
			Debug:      debug,
		}
		if cmd.Flags().Changed("strict") {
			o.Strict = &strict
		}
		cfg, err := cli.LoadAndValidateConfig(o)
		if err != nil {
			return err
		}
		l, err := cli.SetupLogger(cfg.LogLevel, debug, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		appCfg, logger = cfg, l
		return nil
	},
	RunE: runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&ledgerFile, "file", "", "ledger CSV file (default expenses.csv)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "storage backend: csv, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "abort loading on malformed rows")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(trackCmd)
}

// openSession opens the configured store and loads it. A load failure is
// returned together with the usable, empty session.
func openSession(ctx context.Context) (*services.Session, func(), error) {
	session, cleanup, err := cli.OpenSession(ctx, logger, appCfg)
	if err != nil {
		return nil, nil, err
	}
	if _, err := session.Load(ctx); err != nil {
		return session, cleanup, fmt.Errorf("load expenses: %w", err)
	}
	return session, cleanup, nil
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.InterruptContext(cmd.Context())
	defer stop()
	out := cmd.OutOrStdout()

	session, cleanup, err := openSession(ctx)
	if session == nil {
		return err
	}
	defer cleanup()
	loadFailed := err != nil
	if loadFailed {
		fmt.Fprintf(out, "Failed to load existing expenses: %v\n", err)
	}
	if n := len(session.Entries()); n > 0 {
		fmt.Fprintf(out, "Loaded %d expense(s) from file.\n", n)
	} else {
		fmt.Fprintln(out, "No saved expenses found yet.")
	}

	err = shell.New(session, cmd.InOrStdin(), out, logger).Run(ctx)
	stop()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		fmt.Fprint(out, "\nInput closed. ")
	case errors.Is(err, context.Canceled):
		fmt.Fprint(out, "\nInterrupted. ")
	default:
		return err
	}

	// The in-memory ledger does not hold what is on disk after a failed load.
	if loadFailed {
		fmt.Fprintf(out, "Exiting without saving: the existing file %s could not be loaded and was left untouched.\n",
			session.Location())
		logger.Warn("Skipping save before exit after failed load",
			log.FieldOperation, log.OpShutdown, log.FieldPath, session.Location())
		return nil
	}
	fmt.Fprintln(out, "Saving and exiting...")
	logger.Info("Best-effort save before exit", log.FieldOperation, log.OpShutdown)
	if _, err := session.Save(context.WithoutCancel(ctx)); err != nil {
		fmt.Fprintf(out, "Failed to save expenses: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "Expenses saved to %s\n", session.Location())
	return nil
}
