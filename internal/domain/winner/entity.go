// internal/domain/winner/entity.go
package winner

import (
	"database/sql"
	"fmt"
	"time"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

type WinnerStatus string

const (
	StatusPending   WinnerStatus = "PENDING"
	StatusClaimed   WinnerStatus = "CLAIMED"
	StatusExpired   WinnerStatus = "EXPIRED"
	StatusCancelled WinnerStatus = "CANCELLED"
)

// Winner records one awarded prize instance. PENDING is the only
// non-terminal state.
type Winner struct {
	ID            int64  `json:"id" db:"id"`
	Reference     string `json:"reference" db:"reference"`
	PrizeID       int64  `json:"prize_id" db:"prize_id"`
	CampaignID    int64  `json:"campaign_id" db:"campaign_id"`
	ParticipantID int64  `json:"participant_id" db:"participant_id"`

	ClaimCode string       `json:"claim_code" db:"claim_code"`
	Status    WinnerStatus `json:"status" db:"status"`

	ExpiresAt time.Time    `json:"expires_at" db:"expires_at"`
	ClaimedAt sql.NullTime `json:"claimed_at,omitempty" db:"claimed_at"`

	// Joined for display, not persisted on this row.
	PrizeName        string `json:"prize_name,omitempty" db:"-"`
	ParticipantEmail string `json:"participant_email,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// terminalErr maps a terminal status to its state-conflict sentinel.
func (w *Winner) terminalErr() error {
	switch w.Status {
	case StatusClaimed:
		return xerrors.ErrAlreadyClaimed
	case StatusExpired:
		return xerrors.ErrClaimExpired
	case StatusCancelled:
		return xerrors.ErrClaimCancelled
	default:
		return nil
	}
}

// MarkClaimed transitions PENDING -> CLAIMED. A claim attempt past the
// expiry fails with ErrClaimExpired; the caller is expected to persist
// the EXPIRED transition it triggers (lazy sweep).
func (w *Winner) MarkClaimed(now time.Time) error {
	if err := w.terminalErr(); err != nil {
		return err
	}
	if now.After(w.ExpiresAt) {
		w.Status = StatusExpired
		return xerrors.ErrClaimExpired
	}
	w.Status = StatusClaimed
	w.ClaimedAt = sql.NullTime{Time: now, Valid: true}
	return nil
}

// MarkExpired transitions PENDING -> EXPIRED.
func (w *Winner) MarkExpired() error {
	if err := w.terminalErr(); err != nil {
		return err
	}
	w.Status = StatusExpired
	return nil
}

// MarkCancelled transitions PENDING -> CANCELLED. The caller restores
// the prize stock alongside.
func (w *Winner) MarkCancelled() error {
	if err := w.terminalErr(); err != nil {
		return fmt.Errorf("cannot cancel winner in status %s: %w", w.Status, err)
	}
	w.Status = StatusCancelled
	return nil
}
