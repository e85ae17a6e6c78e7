package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
)

var listMonth string

// listCmd prints the valid entries of the ledger.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded expenses",
	Long: `List the valid expenses in the ledger, numbered by position.

Example:
  ledger list
  ledger list --month 2025-08`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listMonth, "month", "", "only show expenses of this month (YYYY-MM or current)")
}

func runList(cmd *cobra.Command, args []string) error {
	session, cleanup, err := openSession(cmd.Context())
	if session == nil {
		return err
	}
	defer cleanup()
	if err != nil {
		return err
	}

	var month *core.YearMonth
	if listMonth != "" {
		ym, err := core.ParseMonthInput(listMonth, session.Now())
		if err != nil {
			return fmt.Errorf("--month %q: %w", listMonth, err)
		}
		month = &ym
	}

	out := cmd.OutOrStdout()
	shown := 0
	for i, e := range session.Entries() {
		if !e.IsValid() {
			continue
		}
		if t, _ := e.Time(); month != nil && !month.Contains(t) {
			continue
		}
		amount, _ := e.Value()
		fmt.Fprintf(out, "%d. %s | %s | %s | %s\n",
			i+1, e.Date, e.Category, core.FormatAmount(amount), e.Description)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, "No valid expenses to display.")
	}
	return nil
}
