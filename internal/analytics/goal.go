package analytics

import (
	"math"
	"time"

	"contas/internal/core"
)

const (
	GoalAchieved   GoalStatus = "achieved"
	GoalOverdue    GoalStatus = "overdue"
	GoalInProgress GoalStatus = "in_progress"
)

// GoalStatus is the tier derived from progress and the deadline.
type GoalStatus string

// GoalEvaluation is the derived state of one savings goal at a point in
// time. Deadline-dependent fields are only meaningful when HasDeadline.
type GoalEvaluation struct {
	Goal              core.Goal  `json:"goal"`
	Progress          float64    `json:"progress"` // clamped to [0, 100]
	Remaining         core.Money `json:"remaining"`
	HasDeadline       bool       `json:"has_deadline"`
	DaysLeft          int        `json:"days_left,omitempty"`
	Status            GoalStatus `json:"status"`
	MonthlySuggestion core.Money `json:"monthly_suggestion"`
	HasSuggestion     bool       `json:"has_suggestion"`
}

// EvaluateGoal derives progress, days remaining, the required monthly
// contribution and the status tier. The raw current/target ratio decides
// achievement; the exported progress is clamped for display.
func EvaluateGoal(g core.Goal, now time.Time) GoalEvaluation {
	eval := GoalEvaluation{
		Goal:      g,
		Remaining: g.TargetAmount.Sub(g.CurrentAmount).Max(core.Zero),
	}

	// Ratio guards a zero target even though validation rejects it upstream.
	raw := g.CurrentAmount.Ratio(g.TargetAmount) * 100
	eval.Progress = clampPercent(raw)

	if g.Deadline != nil {
		eval.HasDeadline = true
		days := int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
		if days < 0 {
			days = 0
		}
		eval.DaysLeft = days
	}

	switch {
	case raw >= 100:
		eval.Status = GoalAchieved
	case eval.HasDeadline && eval.DaysLeft == 0:
		eval.Status = GoalOverdue
	default:
		eval.Status = GoalInProgress
	}

	if eval.Remaining.IsPositive() && eval.HasDeadline && eval.DaysLeft > 0 {
		months := int64(math.Ceil(float64(eval.DaysLeft) / 30))
		if months < 1 {
			months = 1
		}
		eval.MonthlySuggestion = eval.Remaining.Div(months)
		eval.HasSuggestion = true
	}

	return eval
}
