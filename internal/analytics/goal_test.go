package analytics

import (
	"testing"
	"time"

	"contas/internal/core"
)

func goalWith(current, target string, deadline *time.Time) core.Goal {
	cur, _ := core.ParseMoney(current)
	tgt, _ := core.ParseMoney(target)
	return core.Goal{Name: "Reserva", CurrentAmount: cur, TargetAmount: tgt, Deadline: deadline}
}

func TestEvaluateGoal(t *testing.T) {
	now := day(2024, 5, 20)

	tests := []struct {
		name         string
		goal         core.Goal
		wantProgress float64
		wantStatus   GoalStatus
		wantDaysLeft int
	}{
		{
			name:         "in progress with deadline",
			goal:         goalWith("800.00", "1000.00", ptr(now.AddDate(0, 0, 10))),
			wantProgress: 80,
			wantStatus:   GoalInProgress,
			wantDaysLeft: 10,
		},
		{
			name:         "achieved exactly",
			goal:         goalWith("1000.00", "1000.00", ptr(now.AddDate(0, 0, 10))),
			wantProgress: 100,
			wantStatus:   GoalAchieved,
			wantDaysLeft: 10,
		},
		{
			name:         "exceeded still clamps to 100",
			goal:         goalWith("1500.00", "1000.00", nil),
			wantProgress: 100,
			wantStatus:   GoalAchieved,
		},
		{
			name:         "past deadline and short of the target",
			goal:         goalWith("300.00", "1000.00", ptr(now.AddDate(0, 0, -5))),
			wantProgress: 30,
			wantStatus:   GoalOverdue,
			wantDaysLeft: 0,
		},
		{
			name:         "achieved wins over an expired deadline",
			goal:         goalWith("1000.00", "1000.00", ptr(now.AddDate(0, 0, -5))),
			wantProgress: 100,
			wantStatus:   GoalAchieved,
			wantDaysLeft: 0,
		},
		{
			name:         "no deadline stays in progress",
			goal:         goalWith("100.00", "1000.00", nil),
			wantProgress: 10,
			wantStatus:   GoalInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateGoal(tt.goal, now)
			if got.Progress != tt.wantProgress {
				t.Errorf("progress = %v, want %v", got.Progress, tt.wantProgress)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.HasDeadline != (tt.goal.Deadline != nil) {
				t.Errorf("has_deadline = %v", got.HasDeadline)
			}
			if got.HasDeadline && got.DaysLeft != tt.wantDaysLeft {
				t.Errorf("days_left = %d, want %d", got.DaysLeft, tt.wantDaysLeft)
			}
			if got.Progress < 0 || got.Progress > 100 {
				t.Errorf("progress %v escaped [0, 100]", got.Progress)
			}
		})
	}
}

func TestEvaluateGoalMonthlySuggestion(t *testing.T) {
	now := day(2024, 5, 20)

	// 10 days left rounds up to one month: the whole remainder this month.
	got := EvaluateGoal(goalWith("800.00", "1000.00", ptr(now.AddDate(0, 0, 10))), now)
	if !got.HasSuggestion || got.MonthlySuggestion.String() != "200.00" {
		t.Fatalf("suggestion = %s (has=%v), want 200.00", got.MonthlySuggestion, got.HasSuggestion)
	}

	// 90 days left is three months.
	got = EvaluateGoal(goalWith("400.00", "1000.00", ptr(now.AddDate(0, 0, 90))), now)
	if !got.HasSuggestion || got.MonthlySuggestion.String() != "200.00" {
		t.Fatalf("suggestion = %s (has=%v), want 200.00", got.MonthlySuggestion, got.HasSuggestion)
	}

	// Nothing remaining, nothing to suggest.
	got = EvaluateGoal(goalWith("1000.00", "1000.00", ptr(now.AddDate(0, 0, 30))), now)
	if got.HasSuggestion {
		t.Fatal("achieved goal should carry no suggestion")
	}

	// No deadline, no suggestion either.
	got = EvaluateGoal(goalWith("100.00", "1000.00", nil), now)
	if got.HasSuggestion {
		t.Fatal("open-ended goal should carry no suggestion")
	}
}

func TestEvaluateGoalZeroTarget(t *testing.T) {
	// Validation rejects zero targets upstream, but the evaluator must not
	// divide by zero when handed one anyway.
	g := core.Goal{Name: "broken", CurrentAmount: core.NewMoney(50), TargetAmount: core.Zero}
	got := EvaluateGoal(g, day(2024, 5, 20))
	if got.Progress != 0 {
		t.Fatalf("progress = %v, want 0", got.Progress)
	}
}

func ptr(t time.Time) *time.Time { return &t }
