// Package shell implements the numbered-menu interface over a session.
//
// The shell reads whole lines from its input and writes plain text to its
// output. Lines are pumped through a channel by a single goroutine so that
// every prompt can also observe context cancellation.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

const (
	choiceAdd       = "1"
	choiceView      = "2"
	choiceTrack     = "3"
	choiceSave      = "4"
	choiceSaveExit  = "5"
	choiceSetBudget = "6"
)

// Ledger is what the shell needs from a session.
type Ledger interface {
	Now() time.Time
	CurrentMonth() core.YearMonth
	Add(e core.Entry) error
	Entries() []core.Entry
	SetBudget(ym core.YearMonth, amount decimal.Decimal) error
	Track(ym core.YearMonth) (core.BudgetStatus, error)
	Save(ctx context.Context) (int, error)
	Location() string
}

var _ Ledger = (*services.Session)(nil)

type Shell struct {
	session Ledger
	in      io.Reader
	out     io.Writer
	logger  *log.Logger
	lines   <-chan string

	ok   *color.Color
	warn *color.Color
	bad  *color.Color
}

func New(session Ledger, in io.Reader, out io.Writer, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.Discard()
	}
	return &Shell{
		session: session,
		in:      in,
		out:     out,
		logger:  logger.WithComponent(log.ComponentShell),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed, color.Bold),
	}
}

// Run shows the menu until the user picks Save & Exit, the input ends, or
// ctx is cancelled. It returns nil, io.EOF and ctx.Err() respectively.
// Saving on EOF or cancellation is left to the caller.
func (sh *Shell) Run(ctx context.Context) error {
	pumpCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	sh.lines = sh.pump(pumpCtx)

	for {
		sh.menu()
		choice, err := sh.prompt(ctx, fmt.Sprintf("Choose an option (1-%s): ", choiceSetBudget))
		if err != nil {
			return err
		}
		sh.logger.DebugContext(ctx, "Menu choice", "choice", choice)

		switch choice {
		case choiceAdd:
			err = sh.addExpense(ctx)
		case choiceView:
			sh.viewExpenses()
		case choiceTrack:
			err = sh.trackBudget(ctx)
		case choiceSave:
			sh.save(ctx)
		case choiceSaveExit:
			sh.save(ctx)
			fmt.Fprintln(sh.out, "Goodbye!")
			return nil
		case choiceSetBudget:
			err = sh.setBudget(ctx)
		default:
			fmt.Fprintf(sh.out, "Invalid choice. Please enter a number between 1 and %s.\n", choiceSetBudget)
		}
		if err != nil {
			return err
		}
	}
}

func (sh *Shell) pump(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(sh.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			sh.logger.Warn("Input read failed", log.FieldError, err)
		}
	}()
	return lines
}

// readLine returns the next trimmed input line.
func (sh *Shell) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-sh.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (sh *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(sh.out, label)
	return sh.readLine(ctx)
}

func (sh *Shell) promptNonEmpty(ctx context.Context, label string) (string, error) {
	for {
		v, err := sh.prompt(ctx, label)
		if err != nil || v != "" {
			return v, err
		}
		fmt.Fprintln(sh.out, "This field cannot be empty. Please try again.")
	}
}

func (sh *Shell) promptDate(ctx context.Context) (string, error) {
	for {
		v, err := sh.promptNonEmpty(ctx, "Date (YYYY-MM-DD): ")
		if err != nil {
			return "", err
		}
		if _, err := core.ParseDate(v); err != nil {
			fmt.Fprintln(sh.out, "Invalid date format. Please use YYYY-MM-DD.")
			continue
		}
		return v, nil
	}
}

func (sh *Shell) promptAmount(ctx context.Context, label string) (decimal.Decimal, error) {
	for {
		v, err := sh.prompt(ctx, label)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := core.ParseInputAmount(v)
		switch {
		case errors.Is(err, core.ErrNegativeAmount):
			fmt.Fprintln(sh.out, "Amount cannot be negative. Try again.")
		case err != nil:
			fmt.Fprintln(sh.out, "Please enter a valid number (e.g., 1250.50).")
		default:
			return d, nil
		}
	}
}

func (sh *Shell) menu() {
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "============================")
	fmt.Fprintln(sh.out, " Personal Expense Tracker ")
	fmt.Fprintln(sh.out, "============================")
	fmt.Fprintln(sh.out, "1. Add expense")
	fmt.Fprintln(sh.out, "2. View expenses")
	fmt.Fprintln(sh.out, "3. Track budget")
	fmt.Fprintln(sh.out, "4. Save expenses")
	fmt.Fprintln(sh.out, "5. Save & Exit")
	fmt.Fprintln(sh.out, "6. Set monthly budget")
}

func (sh *Shell) addExpense(ctx context.Context) error {
	fmt.Fprintln(sh.out, "\n--- Add Expense ---")
	date, err := sh.promptDate(ctx)
	if err != nil {
		return err
	}
	category, err := sh.promptNonEmpty(ctx, "Category (e.g., Food, Travel): ")
	if err != nil {
		return err
	}
	amount, err := sh.promptAmount(ctx, "Amount: ")
	if err != nil {
		return err
	}
	description, err := sh.promptNonEmpty(ctx, "Description: ")
	if err != nil {
		return err
	}

	t, _ := core.ParseDate(date)
	if err := sh.session.Add(core.NewEntry(t, category, amount, description)); err != nil {
		sh.bad.Fprintf(sh.out, "Could not add expense: %v\n", err)
		return nil
	}
	sh.ok.Fprintln(sh.out, "Expense added successfully.")
	return nil
}

func (sh *Shell) viewExpenses() {
	fmt.Fprintln(sh.out, "\n--- All Expenses ---")
	entries := sh.session.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(sh.out, "No expenses recorded yet.")
		return
	}
	shown := 0
	for i, e := range entries {
		if !e.IsValid() {
			sh.warn.Fprintf(sh.out, "[Skipped entry #%d] Incomplete or invalid data.\n", i+1)
			continue
		}
		amount, _ := e.Value()
		fmt.Fprintf(sh.out, "%d. %s | %s | %s | %s\n",
			i+1, e.Date, e.Category, core.FormatAmount(amount), e.Description)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(sh.out, "No valid expenses to display.")
	}
}

func (sh *Shell) setBudget(ctx context.Context) error {
	fmt.Fprintln(sh.out, "\n--- Set Monthly Budget ---")
	fmt.Fprintln(sh.out, "Tip: Budget is tracked per month (YYYY-MM).")
	var ym core.YearMonth
	for {
		v, err := sh.promptNonEmpty(ctx, "Enter month to set budget for (YYYY-MM), or 'current' for this month: ")
		if err != nil {
			return err
		}
		ym, err = core.ParseMonthInput(v, sh.session.Now())
		if err == nil {
			break
		}
		fmt.Fprintln(sh.out, "Invalid month format. Please use YYYY-MM (e.g., 2025-08).")
	}
	return sh.askBudget(ctx, ym)
}

func (sh *Shell) askBudget(ctx context.Context, ym core.YearMonth) error {
	amount, err := sh.promptAmount(ctx, "Enter total budget amount for the month: ")
	if err != nil {
		return err
	}
	if err := sh.session.SetBudget(ym, amount); err != nil {
		sh.bad.Fprintf(sh.out, "Could not set budget: %v\n", err)
		return nil
	}
	fmt.Fprintf(sh.out, "Budget for %s set to %s.\n", ym, core.FormatAmount(amount))
	return nil
}

func (sh *Shell) trackBudget(ctx context.Context) error {
	fmt.Fprintln(sh.out, "\n--- Track Budget ---")
	current := sh.session.CurrentMonth()
	v, err := sh.prompt(ctx, fmt.Sprintf("Enter month to track (YYYY-MM) [default %s]: ", current))
	if err != nil {
		return err
	}
	ym := current
	if v != "" {
		if ym, err = core.ParseMonthInput(v, sh.session.Now()); err != nil {
			fmt.Fprintln(sh.out, "Invalid month format. Please use YYYY-MM.")
			return nil
		}
	}

	status, err := sh.session.Track(ym)
	if errors.Is(err, services.ErrNoBudget) {
		fmt.Fprintf(sh.out, "No budget set for %s.\n", ym)
		answer, perr := sh.prompt(ctx, "Would you like to set it now? (y/n): ")
		if perr != nil {
			return perr
		}
		if !strings.EqualFold(answer, "y") {
			return nil
		}
		if perr := sh.askBudget(ctx, ym); perr != nil {
			return perr
		}
		status, err = sh.session.Track(ym)
	}
	if err != nil {
		sh.bad.Fprintf(sh.out, "Could not track budget: %v\n", err)
		return nil
	}
	fmt.Fprintf(sh.out, "Month: %s\n", ym)
	fmt.Fprintf(sh.out, "Budget: %s\n", core.FormatAmount(status.Budget))
	fmt.Fprintf(sh.out, "Spent:  %s\n", core.FormatAmount(status.Spent))
	if status.OverBudget {
		sh.bad.Fprintf(sh.out, "Status: %s\n", status.Message())
	} else {
		sh.ok.Fprintf(sh.out, "Status: %s\n", status.Message())
	}
	return nil
}

func (sh *Shell) save(ctx context.Context) {
	if _, err := sh.session.Save(ctx); err != nil {
		sh.bad.Fprintf(sh.out, "Failed to save expenses: %v\n", err)
		return
	}
	sh.ok.Fprintf(sh.out, "Expenses saved to %s\n", sh.session.Location())
}
