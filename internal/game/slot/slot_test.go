package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

func testSymbols() []Symbol {
	return []Symbol{
		{Name: "cherry", Weight: 5},
		{Name: "lemon", Weight: 3},
		{Name: "star", Weight: 1},
		{Name: "seven", Weight: 1},
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = New([]Symbol{{Name: "", Weight: 1}})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = New([]Symbol{{Name: "cherry", Weight: 0}})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestSpinForced_RevealsExactCombination(t *testing.T) {
	e, err := New(testSymbols())
	require.NoError(t, err)

	combo := [3]string{"seven", "seven", "seven"}
	for i := 0; i < 100; i++ {
		res, err := e.SpinForced(combo)
		require.NoError(t, err)
		assert.Equal(t, combo, res.Symbols)
	}
}

func TestSpinForced_UnknownSymbol(t *testing.T) {
	e, err := New(testSymbols())
	require.NoError(t, err)

	_, err = e.SpinForced([3]string{"seven", "diamond", "seven"})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestSpin_SymbolsAlwaysValid(t *testing.T) {
	e, err := New(testSymbols())
	require.NoError(t, err)

	valid := map[string]bool{"cherry": true, "lemon": true, "star": true, "seven": true}
	for i := 0; i < 1000; i++ {
		res, err := e.Spin()
		require.NoError(t, err)
		for _, s := range res.Symbols {
			assert.True(t, valid[s], "unexpected symbol %q", s)
		}
	}
}

func TestSpin_WeightedDistribution(t *testing.T) {
	e, err := New(testSymbols())
	require.NoError(t, err)

	// cherry carries half the weight of reel 0; check it dominates.
	counts := map[string]int{}
	const n = 20_000
	for i := 0; i < n; i++ {
		res, err := e.Spin()
		require.NoError(t, err)
		counts[res.Symbols[0]]++
	}
	assert.InDelta(t, 0.5, float64(counts["cherry"])/n, 0.05)
	assert.InDelta(t, 0.1, float64(counts["seven"])/n, 0.05)
}
