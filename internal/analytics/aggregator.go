// Package analytics is the pure computation core: it turns a snapshot of
// transactions, budgets and goals into period aggregates, budget and goal
// evaluations, trend deltas and ranked insights. It keeps no state between
// calls and performs no I/O; callers own snapshot lifetime and refresh.
package analytics

import (
	"sort"
	"time"

	"contas/internal/core"
)

// MonthlyAggregate holds the totals for one calendar month.
type MonthlyAggregate struct {
	Period  string     `json:"period"` // "YYYY-MM"
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`
}

// CategoryTotal holds the total and transaction count for one category.
type CategoryTotal struct {
	Total core.Money `json:"total"`
	Count int        `json:"count"`
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// MonthWindow returns the calendar-month window containing now.
// Windows are always recomputed from now at call time; caching a "current
// period" across calls is exactly the staleness bug this engine avoids.
func MonthWindow(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// YearWindow returns the calendar-year window containing now.
func YearWindow(now time.Time) Window {
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(1, 0, 0)}
}

// TrailingMonth returns the window covering the 30 days up to now.
func TrailingMonth(now time.Time) Window {
	return Window{Start: now.AddDate(0, 0, -30), End: now}
}

// BudgetWindow returns the current evaluation window for a budget's period.
func BudgetWindow(b core.Budget, now time.Time) Window {
	if b.Period == core.PeriodYearly {
		return YearWindow(now)
	}
	return MonthWindow(now)
}

// AggregateByMonth groups transactions by local calendar year-month and
// returns one aggregate per month, ascending by period key. An empty
// transaction list yields an empty slice.
func AggregateByMonth(txs []core.Transaction) []MonthlyAggregate {
	byPeriod := make(map[string]*MonthlyAggregate)
	for _, tx := range txs {
		key := tx.Date.Format("2006-01")
		agg, ok := byPeriod[key]
		if !ok {
			agg = &MonthlyAggregate{Period: key, Income: core.Zero, Expense: core.Zero}
			byPeriod[key] = agg
		}
		switch tx.Type {
		case core.Income:
			agg.Income = agg.Income.Add(tx.Amount)
		case core.Expense:
			agg.Expense = agg.Expense.Add(tx.Amount)
		}
	}

	out := make([]MonthlyAggregate, 0, len(byPeriod))
	for _, agg := range byPeriod {
		agg.Balance = agg.Income.Sub(agg.Expense)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// AggregateByCategory sums transactions of the given type per category.
// Transactions without a category land in the Uncategorized bucket. When a
// window is given, only transactions inside it are counted.
func AggregateByCategory(txs []core.Transaction, typ core.TransactionType, window *Window) map[string]CategoryTotal {
	out := make(map[string]CategoryTotal)
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		if window != nil && !window.Contains(tx.Date) {
			continue
		}
		bucket := tx.Bucket()
		ct := out[bucket]
		ct.Total = ct.Total.Add(tx.Amount)
		ct.Count++
		out[bucket] = ct
	}
	return out
}

// SpendForCategoryInPeriod sums expense amounts with an exact category match
// inside the window. Used by budget evaluation; the window must be derived
// from now at call time, never cached.
func SpendForCategoryInPeriod(txs []core.Transaction, category string, window Window) core.Money {
	total := core.Zero
	for _, tx := range txs {
		if tx.Type != core.Expense || tx.Category != category {
			continue
		}
		if !window.Contains(tx.Date) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}
