package analytics

import (
	"sort"

	"contas/internal/core"
)

const (
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
	InsightInfo    InsightKind = "info"
)

// Insight codes, one per generation rule.
const (
	CodeBudgetExceeded  = "budget_exceeded"
	CodeBudgetNearLimit = "budget_near_limit"
	CodeGoalAchieved    = "goal_achieved"
	CodeGoalAlmostThere = "goal_almost_there"
	CodeTopCategory     = "top_spending_category"
)

// InsightKind is the severity of an insight.
type InsightKind string

// Insight is a derived observation ready for rendering by the consumer.
// It carries enums and numbers only; message text and currency formatting
// belong to the presentation layer.
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Code    string      `json:"code"`
	Subject string      `json:"subject"` // budget category, goal name or top category
	Amount  core.Money  `json:"amount"`
	Percent float64     `json:"percent"`
}

// goalAlmostThreshold is the progress percentage from which a goal gets an
// "almost there" nudge (rule 4); at 100 the achieved rule wins instead.
const goalAlmostThreshold = 80

// GenerateInsights applies the generation rules independently, so one
// snapshot can yield zero or many insights. Output order is fixed: budget
// insights in input order, then goal insights in input order, then the
// single top-spend highlight. Identical inputs always produce identical
// output.
func GenerateInsights(budgets []BudgetEvaluation, goals []GoalEvaluation, recentSpend map[string]core.Money) []Insight {
	var out []Insight

	for _, be := range budgets {
		switch be.Status {
		case BudgetExceeded:
			out = append(out, Insight{
				Kind:    InsightWarning,
				Code:    CodeBudgetExceeded,
				Subject: be.Budget.Category,
				Amount:  be.Excess,
				Percent: be.Percent,
			})
		case BudgetNearLimit:
			out = append(out, Insight{
				Kind:    InsightInfo,
				Code:    CodeBudgetNearLimit,
				Subject: be.Budget.Category,
				Amount:  be.Spent,
				Percent: be.Percent,
			})
		}
	}

	for _, ge := range goals {
		switch {
		case ge.Status == GoalAchieved:
			out = append(out, Insight{
				Kind:    InsightSuccess,
				Code:    CodeGoalAchieved,
				Subject: ge.Goal.Name,
				Amount:  ge.Goal.CurrentAmount,
				Percent: ge.Progress,
			})
		case ge.Progress >= goalAlmostThreshold && ge.Progress < 100:
			out = append(out, Insight{
				Kind:    InsightInfo,
				Code:    CodeGoalAlmostThere,
				Subject: ge.Goal.Name,
				Amount:  ge.Remaining,
				Percent: ge.Progress,
			})
		}
	}

	if top, ok := topSpendCategory(recentSpend); ok {
		out = append(out, top)
	}
	return out
}

// topSpendCategory picks the single highest-spend category. Ties break on
// category name so the result is deterministic regardless of map order.
func topSpendCategory(spend map[string]core.Money) (Insight, bool) {
	categories := make([]string, 0, len(spend))
	for c := range spend {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var (
		best   string
		amount = core.Zero
	)
	for _, c := range categories {
		if spend[c].GreaterThan(amount) {
			best = c
			amount = spend[c]
		}
	}
	if best == "" || !amount.IsPositive() {
		return Insight{}, false
	}
	return Insight{
		Kind:    InsightInfo,
		Code:    CodeTopCategory,
		Subject: best,
		Amount:  amount,
	}, true
}
