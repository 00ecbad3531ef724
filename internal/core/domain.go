package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"

	// Uncategorized is the bucket used when a transaction carries no
	// category. "Outros" is the legacy placeholder some imports still carry.
	Uncategorized     = "Uncategorized"
	LegacyPlaceholder = "Outros"
)

type (
	TransactionType string

	BudgetPeriod string

	Transaction struct {
		ID          string
		UserID      string
		Amount      Money
		Type        TransactionType
		Category    string // empty means uncategorized
		Description string
		Merchant    string
		Date        time.Time
	}

	Budget struct {
		ID          string
		UserID      string
		Category    string
		Amount      Money // spending limit; spent is always derived, never stored
		Period      BudgetPeriod
		Description string
	}

	Goal struct {
		ID            string
		UserID        string
		Name          string
		Category      string
		CurrentAmount Money
		TargetAmount  Money
		Deadline      *time.Time // nil means open-ended
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrInvalidTarget   = errors.New("target amount must be positive")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyName       = errors.New("empty name")
	ErrZeroDate        = errors.New("date cannot be zero")
	ErrNegativeCurrent = errors.New("current amount cannot be negative")
	ErrDescriptionLong = errors.New("description too long (max 200 characters)")
)

// IsUncategorized reports whether the transaction has no effective category.
func (t Transaction) IsUncategorized() bool {
	c := strings.TrimSpace(t.Category)
	return c == "" || c == LegacyPlaceholder || c == Uncategorized
}

// Bucket returns the category used for aggregation, defaulting to
// Uncategorized when the transaction carries none.
func (t Transaction) Bucket() string {
	c := strings.TrimSpace(t.Category)
	if c == "" {
		return Uncategorized
	}
	return c
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return ErrDescriptionLong
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	switch b.Period {
	case PeriodMonthly, PeriodYearly:
	default:
		return ErrInvalidPeriod
	}
	if len(b.Description) > 200 {
		return ErrDescriptionLong
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.IsNegative() {
		return ErrNegativeCurrent
	}
	return nil
}
