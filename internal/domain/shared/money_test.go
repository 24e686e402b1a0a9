package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

func TestNewMoney_RoundsToTwoDecimals(t *testing.T) {
	m, err := NewMoney(19.999, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 20.00, m.Amount())
	assert.Equal(t, "EUR", m.Currency())
}

func TestNewMoney_NegativeAmount(t *testing.T) {
	_, err := NewMoney(-1, "EUR")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestNewMoney_NormalizesCurrency(t *testing.T) {
	m, err := NewMoney(5, " eur ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", m.Currency())
}

func TestNewMoney_BadCurrency(t *testing.T) {
	_, err := NewMoney(5, "EURO")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestMoney_Add(t *testing.T) {
	a, _ := NewMoney(10.10, "EUR")
	b, _ := NewMoney(0.90, "EUR")
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, 11.00, sum.Amount())
}

func TestMoney_AddCurrencyMismatch(t *testing.T) {
	a, _ := NewMoney(10, "EUR")
	b, _ := NewMoney(10, "USD")
	_, err := a.Add(b)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestMoney_SubtractBelowZero(t *testing.T) {
	a, _ := NewMoney(5, "EUR")
	b, _ := NewMoney(10, "EUR")
	_, err := a.Subtract(b)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}
