package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthOverview summarizes the valid entries of one month.
type MonthOverview struct {
	Month      YearMonth
	Count      int
	Total      decimal.Decimal
	ByCategory []CategoryAmount // first-seen order
}

// BudgetStatus compares a month's budget with what was spent.
type BudgetStatus struct {
	Budget     decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	OverBudget bool
}

// Summarize aggregates the valid entries dated inside ym. Invalid entries
// and entries from other months contribute nothing.
func Summarize(entries []Entry, ym YearMonth) MonthOverview {
	ov := MonthOverview{Month: ym, Total: decimal.Zero}
	index := map[string]int{}
	for _, e := range entries {
		if !e.IsValid() {
			continue
		}
		t, _ := e.Time()
		if !ym.Contains(t) {
			continue
		}
		amount, _ := e.Value()
		ov.Count++
		ov.Total = ov.Total.Add(amount)

		name := e.Category
		if i, ok := index[name]; ok {
			ov.ByCategory[i].Amount = ov.ByCategory[i].Amount.Add(amount)
			continue
		}
		index[name] = len(ov.ByCategory)
		ov.ByCategory = append(ov.ByCategory, CategoryAmount{Name: name, Amount: amount})
	}
	return ov
}

// TotalForMonth sums the valid entries dated inside ym; zero when none match.
func TotalForMonth(entries []Entry, ym YearMonth) decimal.Decimal {
	return Summarize(entries, ym).Total
}

// Track computes the status of a budget against an amount spent. It has no
// notion of a missing budget; callers decide that before calling.
func Track(budget, spent decimal.Decimal) BudgetStatus {
	remaining := budget.Sub(spent)
	return BudgetStatus{
		Budget:     budget,
		Spent:      spent,
		Remaining:  remaining,
		OverBudget: remaining.IsNegative(),
	}
}

// Deficit is how far spending went past the budget, zero when it did not.
func (s BudgetStatus) Deficit() decimal.Decimal {
	if !s.OverBudget {
		return decimal.Zero
	}
	return s.Remaining.Neg()
}

// Message reads "exceeded by X" rather than a negative remainder.
func (s BudgetStatus) Message() string {
	if s.OverBudget {
		return fmt.Sprintf("You have exceeded your budget by %s!", FormatAmount(s.Deficit()))
	}
	return fmt.Sprintf("You have %s left for the month.", FormatAmount(s.Remaining))
}
