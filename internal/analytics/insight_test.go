package analytics

import (
	"testing"

	"contas/internal/core"
)

func TestGenerateInsightsBudgetRules(t *testing.T) {
	limit, _ := core.ParseMoney("100.00")
	budgets := []BudgetEvaluation{
		EvaluateBudget(core.Budget{Category: "Alimentação", Amount: limit, Period: core.PeriodMonthly}, core.NewMoney(150)),
		EvaluateBudget(core.Budget{Category: "Transporte", Amount: limit, Period: core.PeriodMonthly}, core.NewMoney(85)),
		EvaluateBudget(core.Budget{Category: "Lazer", Amount: limit, Period: core.PeriodMonthly}, core.NewMoney(10)),
	}

	got := GenerateInsights(budgets, nil, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 insights, got %d: %+v", len(got), got)
	}

	if got[0].Code != CodeBudgetExceeded || got[0].Kind != InsightWarning || got[0].Subject != "Alimentação" {
		t.Errorf("first insight = %+v", got[0])
	}
	if got[0].Amount.String() != "50.00" {
		t.Errorf("excess amount = %s, want 50.00", got[0].Amount)
	}

	if got[1].Code != CodeBudgetNearLimit || got[1].Kind != InsightInfo || got[1].Subject != "Transporte" {
		t.Errorf("second insight = %+v", got[1])
	}
	if got[1].Percent != 85 {
		t.Errorf("percent = %v, want 85", got[1].Percent)
	}
}

func TestGenerateInsightsGoalRules(t *testing.T) {
	now := day(2024, 5, 20)
	deadline := now.AddDate(0, 0, 10)

	achieved := EvaluateGoal(goalWith("1200.00", "1000.00", nil), now)
	almost := EvaluateGoal(goalWith("800.00", "1000.00", &deadline), now)
	early := EvaluateGoal(goalWith("100.00", "1000.00", &deadline), now)

	got := GenerateInsights(nil, []GoalEvaluation{achieved, almost, early}, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 insights, got %d: %+v", len(got), got)
	}
	if got[0].Code != CodeGoalAchieved || got[0].Kind != InsightSuccess {
		t.Errorf("first insight = %+v", got[0])
	}
	if got[1].Code != CodeGoalAlmostThere || got[1].Kind != InsightInfo || got[1].Percent != 80 {
		t.Errorf("second insight = %+v", got[1])
	}
}

func TestGenerateInsightsTopCategory(t *testing.T) {
	spend := map[string]core.Money{
		"Lazer":     core.NewMoney(120),
		"Moradia":   core.NewMoney(900),
		"Educação":  core.NewMoney(300),
	}

	got := GenerateInsights(nil, nil, spend)
	if len(got) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(got))
	}
	if got[0].Code != CodeTopCategory || got[0].Subject != "Moradia" || got[0].Amount.String() != "900.00" {
		t.Fatalf("top category insight = %+v", got[0])
	}
}

func TestGenerateInsightsTopCategoryDeterministicTie(t *testing.T) {
	spend := map[string]core.Money{
		"Zoo":      core.NewMoney(100),
		"Alimentação": core.NewMoney(100),
	}
	for i := 0; i < 10; i++ {
		got := GenerateInsights(nil, nil, spend)
		if len(got) != 1 || got[0].Subject != "Alimentação" {
			t.Fatalf("tie not broken by name: %+v", got)
		}
	}
}

func TestGenerateInsightsZeroSpend(t *testing.T) {
	spend := map[string]core.Money{"Lazer": core.Zero}
	if got := GenerateInsights(nil, nil, spend); len(got) != 0 {
		t.Fatalf("zero spend should yield no highlight, got %+v", got)
	}
	if got := GenerateInsights(nil, nil, nil); len(got) != 0 {
		t.Fatalf("empty inputs should yield no insights, got %+v", got)
	}
}

func TestGenerateInsightsOrdering(t *testing.T) {
	now := day(2024, 5, 20)
	limit, _ := core.ParseMoney("100.00")

	budgets := []BudgetEvaluation{
		EvaluateBudget(core.Budget{Category: "Alimentação", Amount: limit, Period: core.PeriodMonthly}, core.NewMoney(150)),
	}
	goals := []GoalEvaluation{
		EvaluateGoal(goalWith("1000.00", "1000.00", nil), now),
	}
	spend := map[string]core.Money{"Moradia": core.NewMoney(500)}

	got := GenerateInsights(budgets, goals, spend)
	codes := make([]string, len(got))
	for i, ins := range got {
		codes[i] = ins.Code
	}
	want := []string{CodeBudgetExceeded, CodeGoalAchieved, CodeTopCategory}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}
}
