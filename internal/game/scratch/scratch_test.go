package scratch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

func revealAll(t *testing.T, c *Card) {
	t.Helper()
	for i := range c.Zones() {
		require.NoError(t, c.Reveal(i))
	}
}

func TestBuild_UnknownPattern(t *testing.T) {
	_, err := Build("DIAGONAL", true)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestEvaluate_BeforeFullReveal(t *testing.T) {
	c, err := Build(PatternThreeInRow, true)
	require.NoError(t, err)

	require.NoError(t, c.Reveal(0))
	_, err = c.Evaluate()
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestBuild_WinningCardWinsUnderEveryPattern(t *testing.T) {
	for _, p := range []Pattern{PatternThreeInRow, PatternAllMatch, PatternAnyThree} {
		for i := 0; i < 50; i++ {
			c, err := Build(p, true)
			require.NoError(t, err)
			revealAll(t, c)

			won, err := c.Evaluate()
			require.NoError(t, err)
			assert.True(t, won, "pattern %s", p)
		}
	}
}

func TestBuild_LosingCardNeverWins(t *testing.T) {
	for _, p := range []Pattern{PatternThreeInRow, PatternAllMatch, PatternAnyThree} {
		for i := 0; i < 50; i++ {
			c, err := Build(p, false)
			require.NoError(t, err)
			revealAll(t, c)

			won, err := c.Evaluate()
			require.NoError(t, err)
			assert.False(t, won, "pattern %s", p)
		}
	}
}

func TestEvaluate_AnyThreeBoundary(t *testing.T) {
	zones := make([]Zone, 9)
	for i := range zones {
		zones[i] = Zone{Index: i, Symbol: "star"}
	}
	// Exactly 2 winning zones: no win.
	zones[0].Winning = true
	zones[1].Winning = true
	c, err := NewCard(PatternAnyThree, zones)
	require.NoError(t, err)
	revealAll(t, c)
	won, err := c.Evaluate()
	require.NoError(t, err)
	assert.False(t, won)

	// Third winning zone tips it.
	zones[2].Winning = true
	c, err = NewCard(PatternAnyThree, zones)
	require.NoError(t, err)
	revealAll(t, c)
	won, err = c.Evaluate()
	require.NoError(t, err)
	assert.True(t, won)
}

func TestReveal_OutOfRange(t *testing.T) {
	c, err := Build(PatternAnyThree, false)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Reveal(-1), xerrors.ErrInvalidInput)
	assert.ErrorIs(t, c.Reveal(9), xerrors.ErrInvalidInput)
}

func TestReveal_Idempotent(t *testing.T) {
	c, err := Build(PatternAllMatch, true)
	require.NoError(t, err)
	require.NoError(t, c.Reveal(3))
	require.NoError(t, c.Reveal(3))
	assert.True(t, c.Zones()[3].Revealed)
}
