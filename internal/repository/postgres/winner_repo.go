// internal/repository/postgres/winner_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reviewlottery-service/internal/domain/winner"
	xerrors "reviewlottery-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WinnerRepository struct {
	db *pgxpool.Pool
}

func NewWinnerRepository(db *pgxpool.Pool) *WinnerRepository {
	return &WinnerRepository{db: db}
}

const winnerColumns = `
	w.id, w.reference, w.prize_id, w.campaign_id, w.participant_id,
	w.claim_code, w.status, w.expires_at, w.claimed_at, w.created_at, w.updated_at`

func scanWinner(row pgx.Row, w *winner.Winner) error {
	return row.Scan(
		&w.ID, &w.Reference, &w.PrizeID, &w.CampaignID, &w.ParticipantID,
		&w.ClaimCode, &w.Status, &w.ExpiresAt, &w.ClaimedAt, &w.CreatedAt, &w.UpdatedAt,
	)
}

// CreateAwardingPrize decrements the prize stock and inserts the winner
// row in one transaction. The decrement is conditional on remaining
// stock, so concurrent awards never oversell: if another play took the
// last unit first, the whole award rolls back with ErrOutOfStock.
func (r *WinnerRepository) CreateAwardingPrize(ctx context.Context, w *winner.Winner) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin award tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(
		ctx,
		`UPDATE prizes SET remaining = remaining - 1, updated_at = $1 WHERE id = $2 AND remaining > 0`,
		time.Now(), w.PrizeID,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement prize stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrOutOfStock
	}

	query := `
		INSERT INTO winners (reference, prize_id, campaign_id, participant_id, claim_code, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		w.Reference, w.PrizeID, w.CampaignID, w.ParticipantID, w.ClaimCode, w.Status, w.ExpiresAt,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert winner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit award tx: %w", err)
	}

	return nil
}

func (r *WinnerRepository) FindByID(ctx context.Context, id int64) (*winner.Winner, error) {
	return r.findBy(ctx, "w.id = $1", id)
}

func (r *WinnerRepository) FindByClaimCode(ctx context.Context, code string) (*winner.Winner, error) {
	return r.findBy(ctx, "w.claim_code = $1", code)
}

func (r *WinnerRepository) findBy(ctx context.Context, where string, arg interface{}) (*winner.Winner, error) {
	query := `
		SELECT ` + winnerColumns + `, p.name, pa.email
		FROM winners w
		JOIN prizes p ON p.id = w.prize_id
		JOIN participants pa ON pa.id = w.participant_id
		WHERE ` + where

	var w winner.Winner
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&w.ID, &w.Reference, &w.PrizeID, &w.CampaignID, &w.ParticipantID,
		&w.ClaimCode, &w.Status, &w.ExpiresAt, &w.ClaimedAt, &w.CreatedAt, &w.UpdatedAt,
		&w.PrizeName, &w.ParticipantEmail,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find winner: %w", err)
	}

	return &w, nil
}

func (r *WinnerRepository) List(ctx context.Context, filters *winner.WinnerListFilters) ([]winner.Winner, int64, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.CampaignID != nil {
		where = append(where, fmt.Sprintf("w.campaign_id = $%d", argPos))
		args = append(args, *filters.CampaignID)
		argPos++
	}
	if filters.Status != nil {
		where = append(where, fmt.Sprintf("w.status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM winners w WHERE ` + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count winners: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, p.name, pa.email
		FROM winners w
		JOIN prizes p ON p.id = w.prize_id
		JOIN participants pa ON pa.id = w.participant_id
		WHERE %s
		ORDER BY w.created_at DESC
		LIMIT $%d OFFSET $%d`,
		winnerColumns, whereClause, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list winners: %w", err)
	}
	defer rows.Close()

	var winners []winner.Winner
	for rows.Next() {
		var w winner.Winner
		err := rows.Scan(
			&w.ID, &w.Reference, &w.PrizeID, &w.CampaignID, &w.ParticipantID,
			&w.ClaimCode, &w.Status, &w.ExpiresAt, &w.ClaimedAt, &w.CreatedAt, &w.UpdatedAt,
			&w.PrizeName, &w.ParticipantEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, w)
	}

	return winners, total, rows.Err()
}

func (r *WinnerRepository) UpdateStatus(ctx context.Context, w *winner.Winner) error {
	query := `UPDATE winners SET status = $1, claimed_at = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.Exec(ctx, query, w.Status, w.ClaimedAt, time.Now(), w.ID)
	if err != nil {
		return fmt.Errorf("failed to update winner status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// CancelRestoringStock flips the winner to CANCELLED and returns the
// prize unit to stock in one transaction. The restore is capped by the
// quantity check on the prizes table.
func (r *WinnerRepository) CancelRestoringStock(ctx context.Context, w *winner.Winner) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cancel tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(
		ctx,
		`UPDATE winners SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		winner.StatusCancelled, time.Now(), w.ID, winner.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel winner: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrConflict
	}

	_, err = tx.Exec(
		ctx,
		`UPDATE prizes SET remaining = remaining + 1, updated_at = $1 WHERE id = $2 AND remaining < quantity`,
		time.Now(), w.PrizeID,
	)
	if err != nil {
		return fmt.Errorf("failed to restore prize stock: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cancel tx: %w", err)
	}

	w.Status = winner.StatusCancelled
	return nil
}

// FindExpiredPending returns PENDING winners whose expiry has passed,
// oldest first, for the background sweep.
func (r *WinnerRepository) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]winner.Winner, error) {
	query := `
		SELECT ` + winnerColumns + `
		FROM winners w
		WHERE w.status = $1 AND w.expires_at < $2
		ORDER BY w.expires_at
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, winner.StatusPending, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired winners: %w", err)
	}
	defer rows.Close()

	var winners []winner.Winner
	for rows.Next() {
		var w winner.Winner
		if err := scanWinner(rows, &w); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, w)
	}

	return winners, rows.Err()
}
