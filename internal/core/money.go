// Package core provides the domain model shared by the analytics engine
// and its collaborators: transactions, budgets, goals and exact-decimal money.
package core

import (
	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. All engine arithmetic goes through
// decimal addition so repeated sums never accumulate float drift.
type Money struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{decimal.Zero}

// NewMoney builds a Money from an integer unit amount.
func NewMoney(units int64) Money {
	return Money{decimal.NewFromInt(units)}
}

// NewMoneyFromFloat builds a Money from a float, rounding to 2 decimals.
func NewMoneyFromFloat(v float64) Money {
	return Money{decimal.NewFromFloat(v).Round(2)}
}

// ParseMoney parses a decimal string such as "12.34". It accepts the
// decimal comma too, since imports frequently carry it.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(normalizeDecimal(s))
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	return Money{d}, nil
}

func normalizeDecimal(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ',':
			out = append(out, '.')
		case ' ':
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Div divides by an integer, rounded to 2 decimals.
func (m Money) Div(n int64) Money {
	if n == 0 {
		return Zero
	}
	return Money{m.Decimal.Div(decimal.NewFromInt(n)).Round(2)}
}

// Ratio returns m/other as a float64, or 0 when other is zero.
func (m Money) Ratio(other Money) float64 {
	if other.IsZero() {
		return 0
	}
	f, _ := m.Decimal.Div(other.Decimal).Float64()
	return f
}

func (m Money) GreaterThan(other Money) bool {
	return m.Decimal.GreaterThan(other.Decimal)
}

func (m Money) LessThan(other Money) bool {
	return m.Decimal.LessThan(other.Decimal)
}

func (m Money) IsPositive() bool {
	return m.Decimal.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

func (m Money) IsZero() bool {
	return m.Decimal.IsZero()
}

// Float64 returns an approximate float value, for percentage math only.
func (m Money) Float64() float64 {
	return m.Decimal.InexactFloat64()
}

// Max returns the larger of m and other.
func (m Money) Max(other Money) Money {
	if m.GreaterThan(other) {
		return m
	}
	return other
}

// String renders with exactly two decimal places, the engine's output
// precision. Display formatting beyond that is the consumer's job.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}
