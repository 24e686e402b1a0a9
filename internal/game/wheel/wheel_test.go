package wheel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

func fourSegments() []Segment {
	return []Segment{
		{ID: 1, Label: "Coffee", Probability: 40},
		{ID: 2, Label: "Croissant", Probability: 30},
		{ID: 3, Label: "T-shirt", Probability: 20},
		{ID: 4, Label: "Dinner", Probability: 10},
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = New([]Segment{{ID: 1, Label: " ", Probability: 100}})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = New([]Segment{{ID: 1, Label: "A", Probability: 60}})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = New(fourSegments())
	assert.NoError(t, err)
}

func TestSpin_StopAngle(t *testing.T) {
	w, err := New(fourSegments())
	require.NoError(t, err)

	// 4 segments of 90 degrees: index*90 + 45.
	cases := []struct {
		id        int64
		wantIndex int
		wantAngle float64
	}{
		{1, 0, 45},
		{2, 1, 135},
		{3, 2, 225},
		{4, 3, 315},
	}
	for _, tc := range cases {
		res, err := w.Spin(tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.id, res.SegmentID)
		assert.Equal(t, tc.wantIndex, res.SegmentIndex)
		assert.Equal(t, tc.wantAngle, res.StopAngle)
	}
}

func TestSpin_CosmeticRanges(t *testing.T) {
	w, err := New(fourSegments())
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		res, err := w.Spin(2)
		require.NoError(t, err)

		// total = 360*k + (360 - stop), k in [3,7]
		decorated := res.TotalRotation - (360 - res.StopAngle)
		k := decorated / 360
		assert.GreaterOrEqual(t, k, 3.0)
		assert.LessOrEqual(t, k, 7.0)
		assert.Equal(t, k, float64(int(k)), "full rotations must be whole")

		assert.GreaterOrEqual(t, res.DurationMs, 3000)
		assert.LessOrEqual(t, res.DurationMs, 6000)
	}
}

func TestSpin_UnknownSegment(t *testing.T) {
	w, err := New(fourSegments())
	require.NoError(t, err)

	_, err = w.Spin(99)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestSpin_InternalDraw(t *testing.T) {
	w, err := New(fourSegments())
	require.NoError(t, err)

	// Unforced spins must always resolve to a real segment.
	seen := map[int64]bool{}
	for i := 0; i < 5000; i++ {
		res, err := w.Spin(0)
		require.NoError(t, err)
		assert.Contains(t, []int64{1, 2, 3, 4}, res.SegmentID)
		seen[res.SegmentID] = true
	}
	// With 5000 spins every segment should have come up at least once.
	assert.Len(t, seen, 4)
}
