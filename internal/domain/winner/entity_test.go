package winner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

func pendingWinner(expiresAt time.Time) *Winner {
	return &Winner{
		ID:        1,
		Status:    StatusPending,
		ClaimCode: "AB12-CD34-EF56",
		ExpiresAt: expiresAt,
	}
}

func TestMarkClaimed_Pending(t *testing.T) {
	now := time.Now()
	w := pendingWinner(now.Add(24 * time.Hour))

	require.NoError(t, w.MarkClaimed(now))
	assert.Equal(t, StatusClaimed, w.Status)
	assert.True(t, w.ClaimedAt.Valid)
	assert.Equal(t, now, w.ClaimedAt.Time)
}

func TestMarkClaimed_PastExpiryTransitionsToExpired(t *testing.T) {
	now := time.Now()
	w := pendingWinner(now.Add(-time.Hour))

	err := w.MarkClaimed(now)
	assert.ErrorIs(t, err, xerrors.ErrClaimExpired)
	// The failed claim still moves the record to EXPIRED so the caller
	// can persist the lazy sweep.
	assert.Equal(t, StatusExpired, w.Status)
	assert.False(t, w.ClaimedAt.Valid)
}

func TestTerminalStatesRejectAllTransitions(t *testing.T) {
	now := time.Now()
	cases := []struct {
		status WinnerStatus
		want   error
	}{
		{StatusClaimed, xerrors.ErrAlreadyClaimed},
		{StatusExpired, xerrors.ErrClaimExpired},
		{StatusCancelled, xerrors.ErrClaimCancelled},
	}

	for _, tc := range cases {
		w := pendingWinner(now.Add(24 * time.Hour))
		w.Status = tc.status

		assert.ErrorIs(t, w.MarkClaimed(now), tc.want, "claim from %s", tc.status)
		assert.ErrorIs(t, w.MarkExpired(), tc.want, "expire from %s", tc.status)
		assert.ErrorIs(t, w.MarkCancelled(), tc.want, "cancel from %s", tc.status)
		// Status unchanged after rejected transition.
		assert.Equal(t, tc.status, w.Status)
	}
}

func TestMarkClaimed_Idempotence(t *testing.T) {
	now := time.Now()
	w := pendingWinner(now.Add(time.Hour))
	require.NoError(t, w.MarkClaimed(now))

	// Always the same error kind on repeat claims.
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, w.MarkClaimed(now), xerrors.ErrAlreadyClaimed)
	}
}

func TestMarkCancelled_Pending(t *testing.T) {
	w := pendingWinner(time.Now().Add(time.Hour))
	require.NoError(t, w.MarkCancelled())
	assert.Equal(t, StatusCancelled, w.Status)
}
