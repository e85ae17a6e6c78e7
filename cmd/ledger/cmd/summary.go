package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
)

var summaryMonth string

// summaryCmd prints the monthly total and its breakdown by category.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a month's total by category",
	Long: `Show the total spent in a month and how it splits across
categories. Invalid entries are not counted.

Example:
  ledger summary --month 2025-08`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryMonth, "month", core.CurrentMonthToken, "month to summarize (YYYY-MM or current)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	session, cleanup, err := openSession(cmd.Context())
	if session == nil {
		return err
	}
	defer cleanup()
	if err != nil {
		return err
	}

	ym, err := core.ParseMonthInput(summaryMonth, session.Now())
	if err != nil {
		return fmt.Errorf("--month %q: %w", summaryMonth, err)
	}
	ov := session.Summary(ym)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Month:   %s\n", ov.Month)
	fmt.Fprintf(out, "Entries: %d\n", ov.Count)
	fmt.Fprintf(out, "Total:   %s\n", core.FormatAmount(ov.Total))
	for _, c := range ov.ByCategory {
		fmt.Fprintf(out, "  %s: %s\n", c.Name, core.FormatAmount(c.Amount))
	}
	return nil
}
