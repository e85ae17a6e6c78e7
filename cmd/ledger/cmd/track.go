package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
)

var (
	trackMonth  string
	trackBudget string
)

// trackCmd compares a month's spending with a budget. Budgets are not
// stored, so the budget is passed on every call.
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Compare a month's spending with a budget",
	Long: `Compare what was spent in a month with the given budget.

Example:
  ledger track --month 2025-08 --budget 100`,
	Args: cobra.NoArgs,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().StringVar(&trackMonth, "month", core.CurrentMonthToken, "month to track (YYYY-MM or current)")
	trackCmd.Flags().StringVar(&trackBudget, "budget", "", "total budget for the month (required)")
	_ = trackCmd.MarkFlagRequired("budget")
}

func runTrack(cmd *cobra.Command, args []string) error {
	session, cleanup, err := openSession(cmd.Context())
	if session == nil {
		return err
	}
	defer cleanup()
	if err != nil {
		return err
	}

	ym, err := core.ParseMonthInput(trackMonth, session.Now())
	if err != nil {
		return fmt.Errorf("--month %q: %w", trackMonth, err)
	}
	budget, err := core.ParseInputAmount(trackBudget)
	if err != nil {
		return fmt.Errorf("--budget %q: %w", trackBudget, err)
	}
	if err := session.SetBudget(ym, budget); err != nil {
		return err
	}
	status, err := session.Track(ym)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Month: %s\n", ym)
	fmt.Fprintf(out, "Budget: %s\n", core.FormatAmount(status.Budget))
	fmt.Fprintf(out, "Spent:  %s\n", core.FormatAmount(status.Spent))
	fmt.Fprintf(out, "Status: %s\n", status.Message())
	return nil
}
