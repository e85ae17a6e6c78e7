package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
)

var (
	addDate        string
	addCategory    string
	addAmount      string
	addDescription string
)

// addCmd appends one expense and saves the ledger.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Long: `Record one expense and save the ledger.

The date defaults to today. Amounts must be non-negative and may use a
decimal comma.

Example:
  ledger add --category Food --amount 12,50 --description Lunch`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "expense date YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "expense category (required)")
	addCmd.Flags().StringVar(&addAmount, "amount", "", "expense amount (required)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "expense description (required)")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("description")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, cleanup, err := openSession(ctx)
	if session == nil {
		return err
	}
	defer cleanup()
	// Saving after a failed load would overwrite the file with one entry.
	if err != nil {
		return err
	}

	date := session.Now()
	if addDate != "" {
		if date, err = core.ParseDate(addDate); err != nil {
			return fmt.Errorf("--date %q: %w", addDate, err)
		}
	}
	amount, err := core.ParseInputAmount(addAmount)
	if err != nil {
		return fmt.Errorf("--amount %q: %w", addAmount, err)
	}
	if err := session.Add(core.NewEntry(date, addCategory, amount, addDescription)); err != nil {
		return err
	}
	if _, err := session.Save(ctx); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Expense added successfully.")
	fmt.Fprintf(out, "Expenses saved to %s\n", session.Location())
	return nil
}
