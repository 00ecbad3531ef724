package analytics

import (
	"testing"
	"time"

	"contas/internal/core"
)

func tx(typ core.TransactionType, amount string, category string, date time.Time) core.Transaction {
	m, err := core.ParseMoney(amount)
	if err != nil {
		panic(err)
	}
	return core.Transaction{Amount: m, Type: typ, Category: category, Date: date}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAggregateByMonth(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, "1000.00", "", day(2024, 4, 5)),
		tx(core.Expense, "800.00", "Moradia", day(2024, 4, 20)),
		tx(core.Income, "1200.00", "", day(2024, 5, 5)),
		tx(core.Expense, "700.00", "Moradia", day(2024, 5, 12)),
		tx(core.Expense, "60.00", "Lazer", day(2024, 5, 28)),
	}

	got := AggregateByMonth(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if got[0].Period != "2024-04" || got[1].Period != "2024-05" {
		t.Fatalf("periods not ascending: %s, %s", got[0].Period, got[1].Period)
	}
	if got[0].Income.String() != "1000.00" || got[0].Expense.String() != "800.00" || got[0].Balance.String() != "200.00" {
		t.Errorf("april aggregate wrong: %+v", got[0])
	}
	if got[1].Income.String() != "1200.00" || got[1].Expense.String() != "760.00" || got[1].Balance.String() != "440.00" {
		t.Errorf("may aggregate wrong: %+v", got[1])
	}
}

func TestAggregateByMonthConservation(t *testing.T) {
	// Sum over the monthly income totals equals the sum of all income
	// transactions, cent for cent.
	txs := []core.Transaction{
		tx(core.Income, "0.10", "", day(2024, 1, 1)),
		tx(core.Income, "0.20", "", day(2024, 2, 1)),
		tx(core.Income, "0.30", "", day(2024, 2, 15)),
		tx(core.Income, "99.99", "", day(2024, 3, 31)),
		tx(core.Expense, "12.34", "", day(2024, 3, 31)),
	}

	direct := core.Zero
	for _, tr := range txs {
		if tr.Type == core.Income {
			direct = direct.Add(tr.Amount)
		}
	}

	byMonth := core.Zero
	for _, agg := range AggregateByMonth(txs) {
		byMonth = byMonth.Add(agg.Income)
	}

	if byMonth.String() != direct.String() {
		t.Fatalf("income not conserved: by month %s, direct %s", byMonth, direct)
	}
}

func TestAggregateByMonthEmpty(t *testing.T) {
	if got := AggregateByMonth(nil); len(got) != 0 {
		t.Fatalf("expected empty aggregates, got %v", got)
	}
}

func TestAggregateByCategory(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "150.00", "Alimentação", day(2024, 5, 10)),
		tx(core.Expense, "50.00", "Alimentação", day(2024, 5, 15)),
		tx(core.Expense, "30.00", "", day(2024, 5, 16)),
		tx(core.Expense, "70.00", "Lazer", day(2024, 4, 1)),
		tx(core.Income, "500.00", "Alimentação", day(2024, 5, 2)), // wrong type, ignored
	}

	got := AggregateByCategory(txs, core.Expense, nil)
	if ct := got["Alimentação"]; ct.Total.String() != "200.00" || ct.Count != 2 {
		t.Errorf("Alimentação = %+v", ct)
	}
	if ct := got[core.Uncategorized]; ct.Total.String() != "30.00" || ct.Count != 1 {
		t.Errorf("Uncategorized = %+v", ct)
	}

	// Same with a window restricted to May 2024.
	window := MonthWindow(day(2024, 5, 20))
	got = AggregateByCategory(txs, core.Expense, &window)
	if _, ok := got["Lazer"]; ok {
		t.Error("Lazer is outside the window but was counted")
	}
	if len(got) != 2 {
		t.Errorf("expected 2 categories in window, got %d", len(got))
	}
}

func TestSpendForCategoryInPeriod(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "150.00", "Alimentação", day(2024, 5, 10)),
		tx(core.Expense, "50.00", "Alimentação", day(2024, 5, 15)),
		tx(core.Expense, "40.00", "Alimentação", day(2024, 6, 1)), // next period
		tx(core.Expense, "25.00", "Transporte", day(2024, 5, 12)),
		tx(core.Income, "99.00", "Alimentação", day(2024, 5, 13)),
	}

	window := MonthWindow(day(2024, 5, 20))
	got := SpendForCategoryInPeriod(txs, "Alimentação", window)
	if got.String() != "200.00" {
		t.Fatalf("spend = %s, want 200.00", got)
	}

	if got := SpendForCategoryInPeriod(nil, "Alimentação", window); !got.IsZero() {
		t.Fatalf("empty list should spend zero, got %s", got)
	}
}

func TestWindowBoundaries(t *testing.T) {
	w := MonthWindow(day(2024, 5, 20))
	cases := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},   // inclusive start
		{time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), false},  // exclusive end
		{time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := w.Contains(tc.at); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}

	yw := YearWindow(day(2024, 5, 20))
	if !yw.Contains(day(2024, 1, 1)) || yw.Contains(day(2025, 1, 1)) {
		t.Error("year window boundaries wrong")
	}
}

func TestTrailingMonthIsThirtyDays(t *testing.T) {
	// On the 31st a fixed 30-day lookback differs from "same day last
	// month": it must start on the 1st, not shift a calendar month back.
	now := day(2024, 3, 31)
	w := TrailingMonth(now)

	if !w.Start.Equal(day(2024, 3, 1)) {
		t.Errorf("start = %v, want %v", w.Start, day(2024, 3, 1))
	}
	if !w.End.Equal(now) {
		t.Errorf("end = %v, want %v", w.End, now)
	}
	if !w.Contains(day(2024, 3, 1)) {
		t.Error("window must include its start")
	}
	if w.Contains(day(2024, 2, 29)) {
		t.Error("window must not reach before the 30-day lookback")
	}
}

func TestBudgetWindow(t *testing.T) {
	now := day(2024, 5, 20)
	monthly := core.Budget{Period: core.PeriodMonthly}
	yearly := core.Budget{Period: core.PeriodYearly}

	if w := BudgetWindow(monthly, now); w != MonthWindow(now) {
		t.Error("monthly budget should use the month window")
	}
	if w := BudgetWindow(yearly, now); w != YearWindow(now) {
		t.Error("yearly budget should use the year window")
	}
}
