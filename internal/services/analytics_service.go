package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"contas/internal/analytics"
	"contas/internal/core"
	"contas/internal/log"
	"contas/internal/storage"
)

// CategoryTotalEntry is a category total in a deterministic order for
// JSON output.
type CategoryTotalEntry struct {
	Category string     `json:"category"`
	Total    core.Money `json:"total"`
	Count    int        `json:"count"`
}

// DashboardReport bundles everything the dashboard needs in one response.
type DashboardReport struct {
	Monthly    []analytics.MonthlyAggregate `json:"monthly"`
	Categories []CategoryTotalEntry         `json:"categories"`
	Budgets    []analytics.BudgetEvaluation `json:"budgets"`
	Goals      []analytics.GoalEvaluation   `json:"goals"`
	Trends     analytics.TrendReport        `json:"trends"`
	Insights   []analytics.Insight          `json:"insights"`
}

// PeriodReport summarizes a caller-chosen window.
type PeriodReport struct {
	From       time.Time            `json:"from"`
	To         time.Time            `json:"to"`
	Income     core.Money           `json:"income"`
	Expense    core.Money           `json:"expense"`
	Balance    core.Money           `json:"balance"`
	Categories []CategoryTotalEntry `json:"categories"`
}

// AnalyticsService derives reports from stored data. Nothing is
// precomputed: every report reads the current transactions so spent
// amounts can never go stale.
type AnalyticsService struct {
	repo   storage.Repository
	logger *log.Logger
}

func NewAnalyticsService(repo storage.Repository, logger *log.Logger) *AnalyticsService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AnalyticsService{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentAnalytics),
	}
}

// Dashboard builds the full dashboard report for a user as of now.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID string, now time.Time) (DashboardReport, error) {
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return DashboardReport{}, fmt.Errorf("list transactions: %w", err)
	}
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return DashboardReport{}, fmt.Errorf("list budgets: %w", err)
	}
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return DashboardReport{}, fmt.Errorf("list goals: %w", err)
	}

	monthly := analytics.AggregateByMonth(txs)

	budgetEvals := make([]analytics.BudgetEvaluation, 0, len(budgets))
	for _, b := range budgets {
		window := analytics.BudgetWindow(b, now)
		spent := analytics.SpendForCategoryInPeriod(txs, b.Category, window)
		budgetEvals = append(budgetEvals, analytics.EvaluateBudget(b, spent))
	}

	goalEvals := make([]analytics.GoalEvaluation, 0, len(goals))
	for _, g := range goals {
		goalEvals = append(goalEvals, analytics.EvaluateGoal(g, now))
	}

	trailing := analytics.TrailingMonth(now)
	recentSpend := make(map[string]core.Money)
	for cat, total := range analytics.AggregateByCategory(txs, core.Expense, &trailing) {
		recentSpend[cat] = total.Total
	}

	report := DashboardReport{
		Monthly:    monthly,
		Categories: sortedCategoryTotals(analytics.AggregateByCategory(txs, core.Expense, nil)),
		Budgets:    budgetEvals,
		Goals:      goalEvals,
		Trends:     analytics.Trends(monthly),
		Insights:   analytics.GenerateInsights(budgetEvals, goalEvals, recentSpend),
	}

	s.logger.DebugContext(ctx, "Dashboard built",
		log.FieldUserID, userID,
		log.FieldCount, len(txs))
	return report, nil
}

// Period builds an aggregate report for a half-open [from, to) window.
func (s *AnalyticsService) Period(ctx context.Context, userID string, from, to time.Time) (PeriodReport, error) {
	if !to.After(from) {
		return PeriodReport{}, fmt.Errorf("invalid period: %s is not before %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return PeriodReport{}, fmt.Errorf("list transactions: %w", err)
	}

	window := analytics.Window{Start: from, End: to}
	report := PeriodReport{
		From:    from,
		To:      to,
		Income:  core.Zero,
		Expense: core.Zero,
	}
	for _, tx := range txs {
		if !window.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case core.Income:
			report.Income = report.Income.Add(tx.Amount)
		case core.Expense:
			report.Expense = report.Expense.Add(tx.Amount)
		}
	}
	report.Balance = report.Income.Sub(report.Expense)
	report.Categories = sortedCategoryTotals(analytics.AggregateByCategory(txs, core.Expense, &window))

	return report, nil
}

// sortedCategoryTotals flattens a category map, largest total first,
// category name breaking ties.
func sortedCategoryTotals(totals map[string]analytics.CategoryTotal) []CategoryTotalEntry {
	entries := make([]CategoryTotalEntry, 0, len(totals))
	for cat, total := range totals {
		entries = append(entries, CategoryTotalEntry{
			Category: cat,
			Total:    total.Total,
			Count:    total.Count,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Total.Equal(entries[j].Total.Decimal) {
			return entries[i].Total.GreaterThan(entries[j].Total)
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}
