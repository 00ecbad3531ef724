package analytics

import (
	"testing"

	"contas/internal/core"
)

func TestEvaluateBudget(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		spent      string
		wantStatus BudgetStatus
		wantRatio  float64
		wantPct    float64
		wantRemain string
		wantExcess string
	}{
		{
			name:       "well within budget",
			limit:      "100.00",
			spent:      "20.00",
			wantStatus: BudgetWithin,
			wantRatio:  0.2,
			wantPct:    20,
			wantRemain: "80.00",
			wantExcess: "0.00",
		},
		{
			name:       "on track from 60 percent",
			limit:      "100.00",
			spent:      "60.00",
			wantStatus: BudgetOnTrack,
			wantRatio:  0.6,
			wantPct:    60,
			wantRemain: "40.00",
			wantExcess: "0.00",
		},
		{
			name:       "near limit from 80 percent",
			limit:      "100.00",
			spent:      "80.00",
			wantStatus: BudgetNearLimit,
			wantRatio:  0.8,
			wantPct:    80,
			wantRemain: "20.00",
			wantExcess: "0.00",
		},
		{
			name:       "exceeded at exactly the limit",
			limit:      "100.00",
			spent:      "100.00",
			wantStatus: BudgetExceeded,
			wantRatio:  1.0,
			wantPct:    100,
			wantRemain: "0.00",
			wantExcess: "0.00",
		},
		{
			name:       "double the limit clamps the percent",
			limit:      "100.00",
			spent:      "200.00",
			wantStatus: BudgetExceeded,
			wantRatio:  2.0,
			wantPct:    100,
			wantRemain: "0.00",
			wantExcess: "100.00",
		},
		{
			name:       "nothing spent",
			limit:      "100.00",
			spent:      "0",
			wantStatus: BudgetWithin,
			wantRatio:  0,
			wantPct:    0,
			wantRemain: "100.00",
			wantExcess: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, _ := core.ParseMoney(tt.limit)
			spent, _ := core.ParseMoney(tt.spent)
			b := core.Budget{Category: "Alimentação", Amount: limit, Period: core.PeriodMonthly}

			got := EvaluateBudget(b, spent)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.Ratio != tt.wantRatio {
				t.Errorf("ratio = %v, want %v", got.Ratio, tt.wantRatio)
			}
			if got.Percent != tt.wantPct {
				t.Errorf("percent = %v, want %v", got.Percent, tt.wantPct)
			}
			if got.Remaining.String() != tt.wantRemain {
				t.Errorf("remaining = %s, want %s", got.Remaining, tt.wantRemain)
			}
			if got.Excess.String() != tt.wantExcess {
				t.Errorf("excess = %s, want %s", got.Excess, tt.wantExcess)
			}
		})
	}
}

func TestEvaluateBudgetZeroLimit(t *testing.T) {
	b := core.Budget{Category: "Lazer", Amount: core.Zero, Period: core.PeriodMonthly}

	got := EvaluateBudget(b, core.NewMoney(10))
	if got.Status != BudgetExceeded {
		t.Fatalf("zero limit with spend: status = %s, want %s", got.Status, BudgetExceeded)
	}
	if got.Excess.String() != "10.00" {
		t.Fatalf("excess = %s, want 10.00", got.Excess)
	}

	got = EvaluateBudget(b, core.Zero)
	if got.Status != BudgetWithin {
		t.Fatalf("zero limit without spend: status = %s, want %s", got.Status, BudgetWithin)
	}
}

// The scenario from the budget tracking contract: two May expenses against a
// monthly limit of 100 evaluated inside May.
func TestEvaluateBudgetMayScenario(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "150.00", "Alimentação", day(2024, 5, 10)),
		tx(core.Expense, "50.00", "Alimentação", day(2024, 5, 15)),
	}
	limit, _ := core.ParseMoney("100.00")
	b := core.Budget{Category: "Alimentação", Amount: limit, Period: core.PeriodMonthly}

	now := day(2024, 5, 20)
	spent := SpendForCategoryInPeriod(txs, b.Category, BudgetWindow(b, now))
	if spent.String() != "200.00" {
		t.Fatalf("spent = %s, want 200.00", spent)
	}

	got := EvaluateBudget(b, spent)
	if got.Ratio != 2.0 || got.Status != BudgetExceeded || got.Excess.String() != "100.00" {
		t.Fatalf("evaluation = %+v", got)
	}
}
