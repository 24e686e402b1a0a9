// internal/domain/shared/money.go
package shared

import (
	"fmt"
	"math"
	"strings"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

// Money is an immutable amount paired with an ISO currency code.
// Amounts are rounded to 2 decimals at construction.
type Money struct {
	amount   float64
	currency string
}

// NewMoney validates and builds a Money value. Negative amounts and
// missing currencies are rejected with ErrInvalidInput.
func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("amount must not be negative: %w", xerrors.ErrInvalidInput)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("currency must be a 3-letter code: %w", xerrors.ErrInvalidInput)
	}
	return Money{
		amount:   math.Round(amount*100) / 100,
		currency: currency,
	}, nil
}

func (m Money) Amount() float64  { return m.amount }
func (m Money) Currency() string { return m.currency }

// Add returns the sum of two amounts. Mixing currencies fails, it does not panic.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add %s to %s: %w", other.currency, m.currency, xerrors.ErrInvalidInput)
	}
	return NewMoney(m.amount+other.amount, m.currency)
}

// Subtract returns the difference. A result below zero is rejected.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract %s from %s: %w", other.currency, m.currency, xerrors.ErrInvalidInput)
	}
	return NewMoney(m.amount-other.amount, m.currency)
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.amount, m.currency)
}
