package analytics

import (
	"contas/internal/core"
)

const (
	BudgetExceeded  BudgetStatus = "exceeded"
	BudgetNearLimit BudgetStatus = "near_limit"
	BudgetOnTrack   BudgetStatus = "on_track"
	BudgetWithin    BudgetStatus = "within_budget"
)

// BudgetStatus is the tier derived from the spent/limit ratio.
type BudgetStatus string

// BudgetEvaluation is the derived state of one budget against its current
// period spend. Spent is always supplied by the aggregator, never read from
// the budget itself.
type BudgetEvaluation struct {
	Budget    core.Budget  `json:"budget"`
	Spent     core.Money   `json:"spent"`
	Ratio     float64      `json:"ratio"`   // unclamped spent/limit, drives the tiers
	Percent   float64      `json:"percent"` // clamped to [0, 100] for display
	Remaining core.Money   `json:"remaining"`
	Excess    core.Money   `json:"excess"`
	Status    BudgetStatus `json:"status"`
}

// EvaluateBudget derives percentage used, remaining/excess and the status
// tier. A zero limit never divides: it is exceeded when anything was spent
// and within budget otherwise.
func EvaluateBudget(b core.Budget, spent core.Money) BudgetEvaluation {
	eval := BudgetEvaluation{
		Budget:    b,
		Spent:     spent,
		Remaining: b.Amount.Sub(spent).Max(core.Zero),
		Excess:    spent.Sub(b.Amount).Max(core.Zero),
	}

	if b.Amount.IsZero() {
		if spent.IsPositive() {
			eval.Status = BudgetExceeded
			eval.Percent = 100
		} else {
			eval.Status = BudgetWithin
		}
		return eval
	}

	eval.Ratio = spent.Ratio(b.Amount)
	eval.Percent = clampPercent(eval.Ratio * 100)

	switch {
	case eval.Ratio >= 1.0:
		eval.Status = BudgetExceeded
	case eval.Ratio >= 0.8:
		eval.Status = BudgetNearLimit
	case eval.Ratio >= 0.6:
		eval.Status = BudgetOnTrack
	default:
		eval.Status = BudgetWithin
	}
	return eval
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
