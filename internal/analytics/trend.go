package analytics

import "math"

// TrendReport holds month-over-month percentage deltas between the two most
// recent monthly aggregates.
type TrendReport struct {
	IncomePct  float64 `json:"income_pct"`
	ExpensePct float64 `json:"expense_pct"`
	SavingsPct float64 `json:"savings_pct"`
}

// Trends compares the last two aggregates of an ascending monthly series.
// Fewer than two months is not an error: all deltas are zero. Division
// guards keep Inf/NaN out of the report.
func Trends(monthly []MonthlyAggregate) TrendReport {
	var report TrendReport
	if len(monthly) < 2 {
		return report
	}

	last := monthly[len(monthly)-1]
	prev := monthly[len(monthly)-2]

	report.IncomePct = pctChange(last.Income.Float64(), prev.Income.Float64())
	report.ExpensePct = pctChange(last.Expense.Float64(), prev.Expense.Float64())

	lastBalance := last.Balance.Float64()
	prevBalance := prev.Balance.Float64()
	if prevBalance != 0 {
		report.SavingsPct = (lastBalance - prevBalance) / math.Abs(prevBalance) * 100
	}
	return report
}

func pctChange(last, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (last - prev) / prev * 100
}
