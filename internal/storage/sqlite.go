package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contas/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const timeLayout = time.RFC3339

// isDuplicateErr detects a primary-key violation from the sqlite driver so
// it can be surfaced as ErrDuplicateID, matching the memory backend.
func isDuplicateErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, category, description, merchant, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.Amount.String(), string(tx.Type), tx.Category,
		tx.Description, tx.Merchant, tx.Date.UTC().Format(timeLayout),
		time.Now().UTC().Format(timeLayout))
	if isDuplicateErr(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, type, category, description, merchant, date
		FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, type, category, description, merchant, date
		FROM transactions WHERE user_id = ? ORDER BY date ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *SQLiteRepository) UpdateTransactionCategory(ctx context.Context, id, category string) error {
	if category == "" {
		return ErrEmptyCategory
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE id = ?`, category, id)
	if err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate budget: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category, amount, period, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Category, b.Amount.String(), string(b.Period), b.Description,
		time.Now().UTC().Format(timeLayout))
	if isDuplicateErr(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount, period, description
		FROM budgets WHERE user_id = ? ORDER BY category ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		var amount, period string
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &amount, &period, &b.Description); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Amount, err = core.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("parse budget amount: %w", err)
		}
		b.Period = core.BudgetPeriod(period)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("validate goal: %w", err)
	}

	var deadline sql.NullString
	if g.Deadline != nil {
		deadline = sql.NullString{String: g.Deadline.UTC().Format(timeLayout), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, name, category, target_amount, current_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.Category, g.TargetAmount.String(), g.CurrentAmount.String(),
		deadline, time.Now().UTC().Format(timeLayout))
	if isDuplicateErr(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, category, target_amount, current_amount, deadline
		FROM goals WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		var target, current string
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Category, &target, &current, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.TargetAmount, err = core.ParseMoney(target); err != nil {
			return nil, fmt.Errorf("parse goal target: %w", err)
		}
		if g.CurrentAmount, err = core.ParseMoney(current); err != nil {
			return nil, fmt.Errorf("parse goal current: %w", err)
		}
		if deadline.Valid {
			t, err := time.Parse(timeLayout, deadline.String)
			if err != nil {
				return nil, fmt.Errorf("parse goal deadline: %w", err)
			}
			g.Deadline = &t
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

func (r *SQLiteRepository) UpdateGoalCurrentAmount(ctx context.Context, id string, current core.Money) error {
	if current.IsNegative() {
		return core.ErrNegativeCurrent
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_amount = ? WHERE id = ?`, current.String(), id)
	if err != nil {
		return fmt.Errorf("update goal current amount: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) RecordCategoryEvent(ctx context.Context, ev CategoryEvent) error {
	created := ev.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO category_events (id, transaction_id, category, confidence, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.TransactionID, ev.Category, ev.Confidence, ev.Source,
		created.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert category event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListCategoryEvents(ctx context.Context, transactionID string) ([]CategoryEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, transaction_id, category, confidence, source, created_at
		FROM category_events WHERE transaction_id = ? ORDER BY created_at ASC, id ASC`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list category events: %w", err)
	}
	defer rows.Close()

	var events []CategoryEvent
	for rows.Next() {
		var ev CategoryEvent
		var created string
		if err := rows.Scan(&ev.ID, &ev.TransactionID, &ev.Category, &ev.Confidence, &ev.Source, &created); err != nil {
			return nil, fmt.Errorf("scan category event: %w", err)
		}
		if ev.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse event timestamp: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var amount, typ, date string
	if err := row.Scan(&tx.ID, &tx.UserID, &amount, &typ, &tx.Category,
		&tx.Description, &tx.Merchant, &date); err != nil {
		return core.Transaction{}, err
	}

	parsed, err := core.ParseMoney(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}
	tx.Amount = parsed
	tx.Type = core.TransactionType(typ)

	if tx.Date, err = time.Parse(timeLayout, date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date: %w", err)
	}
	return tx, nil
}
