package storage

import (
	"context"
	"errors"
	"time"

	"contas/internal/core"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrEmptyCategory = errors.New("category cannot be empty")
)

// CategoryEvent is the audit record written whenever a category
// suggestion is applied to a transaction.
type CategoryEvent struct {
	ID            string
	TransactionID string
	Category      string
	Confidence    float64
	Source        string // "manual" or "auto"
	CreatedAt     time.Time
}

const (
	SourceManual = "manual"
	SourceAuto   = "auto"
)

// TransactionStore persists transactions.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id, category string) error
	DeleteTransaction(ctx context.Context, id string) error
}

// BudgetStore persists budgets. Spent amounts are never stored, they
// are derived from transactions at read time.
type BudgetStore interface {
	CreateBudget(ctx context.Context, b core.Budget) error
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

// GoalStore persists savings goals.
type GoalStore interface {
	CreateGoal(ctx context.Context, g core.Goal) error
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	UpdateGoalCurrentAmount(ctx context.Context, id string, current core.Money) error
	DeleteGoal(ctx context.Context, id string) error
}

// EventStore records category change events for auditing.
type EventStore interface {
	RecordCategoryEvent(ctx context.Context, ev CategoryEvent) error
	ListCategoryEvents(ctx context.Context, transactionID string) ([]CategoryEvent, error)
}

// Repository is the unified persistence surface for the application.
type Repository interface {
	TransactionStore
	BudgetStore
	GoalStore
	EventStore
	Close() error
}
