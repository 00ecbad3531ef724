package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"contas/internal/core"
)

// MemoryRepository is an in-memory Repository used for development and
// tests. All methods are safe for concurrent use.
type MemoryRepository struct {
	mu           sync.Mutex
	transactions map[string]core.Transaction
	budgets      map[string]core.Budget
	goals        map[string]core.Goal
	events       map[string][]CategoryEvent // keyed by transaction ID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		transactions: make(map[string]core.Transaction),
		budgets:      make(map[string]core.Budget),
		goals:        make(map[string]core.Goal),
		events:       make(map[string][]CategoryEvent),
	}
}

func (m *MemoryRepository) Close() error { return nil }

func (m *MemoryRepository) CreateTransaction(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[tx.ID]; ok {
		return ErrDuplicateID
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryRepository) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return core.Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (m *MemoryRepository) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var txs []core.Transaction
	for _, tx := range m.transactions {
		if tx.UserID == userID {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
	return txs, nil
}

func (m *MemoryRepository) UpdateTransactionCategory(_ context.Context, id, category string) error {
	if category == "" {
		return ErrEmptyCategory
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return ErrNotFound
	}
	tx.Category = category
	m.transactions[id] = tx
	return nil
}

func (m *MemoryRepository) DeleteTransaction(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MemoryRepository) CreateBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.budgets[b.ID]; ok {
		return ErrDuplicateID
	}
	m.budgets[b.ID] = b
	return nil
}

func (m *MemoryRepository) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var budgets []core.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].Category < budgets[j].Category })
	return budgets, nil
}

func (m *MemoryRepository) DeleteBudget(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.budgets[id]; !ok {
		return ErrNotFound
	}
	delete(m.budgets, id)
	return nil
}

func (m *MemoryRepository) CreateGoal(_ context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[g.ID]; ok {
		return ErrDuplicateID
	}
	m.goals[g.ID] = g
	return nil
}

func (m *MemoryRepository) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var goals []core.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].Name < goals[j].Name })
	return goals, nil
}

func (m *MemoryRepository) UpdateGoalCurrentAmount(_ context.Context, id string, current core.Money) error {
	if current.IsNegative() {
		return core.ErrNegativeCurrent
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.goals[id]
	if !ok {
		return ErrNotFound
	}
	g.CurrentAmount = current
	m.goals[id] = g
	return nil
}

func (m *MemoryRepository) DeleteGoal(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[id]; !ok {
		return ErrNotFound
	}
	delete(m.goals, id)
	return nil
}

func (m *MemoryRepository) RecordCategoryEvent(_ context.Context, ev CategoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	m.events[ev.TransactionID] = append(m.events[ev.TransactionID], ev)
	return nil
}

func (m *MemoryRepository) ListCategoryEvents(_ context.Context, transactionID string) ([]CategoryEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := append([]CategoryEvent(nil), m.events[transactionID]...)
	return events, nil
}
