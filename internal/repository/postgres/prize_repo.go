// internal/repository/postgres/prize_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewlottery-service/internal/domain/prize"
	xerrors "reviewlottery-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PrizeRepository struct {
	db *pgxpool.Pool
}

func NewPrizeRepository(db *pgxpool.Pool) *PrizeRepository {
	return &PrizeRepository{db: db}
}

const prizeColumns = `
	id, campaign_id, name, probability, quantity, remaining,
	value, currency, color, created_at, updated_at`

func scanPrize(row pgx.Row, p *prize.Prize) error {
	return row.Scan(
		&p.ID, &p.CampaignID, &p.Name, &p.Probability, &p.Quantity, &p.Remaining,
		&p.Value, &p.Currency, &p.Color, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *PrizeRepository) Create(ctx context.Context, p *prize.Prize) error {
	query := `
		INSERT INTO prizes (campaign_id, name, probability, quantity, remaining, value, currency, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.CampaignID, p.Name, p.Probability, p.Quantity, p.Remaining, p.Value, p.Currency, p.Color,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create prize: %w", err)
	}

	return nil
}

func (r *PrizeRepository) FindByID(ctx context.Context, id int64) (*prize.Prize, error) {
	query := `SELECT ` + prizeColumns + ` FROM prizes WHERE id = $1`

	var p prize.Prize
	err := scanPrize(r.db.QueryRow(ctx, query, id), &p)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find prize: %w", err)
	}

	return &p, nil
}

func (r *PrizeRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]prize.Prize, error) {
	query := `SELECT ` + prizeColumns + ` FROM prizes WHERE campaign_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes: %w", err)
	}
	defer rows.Close()

	var prizes []prize.Prize
	for rows.Next() {
		var p prize.Prize
		if err := scanPrize(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan prize: %w", err)
		}
		prizes = append(prizes, p)
	}

	return prizes, rows.Err()
}

func (r *PrizeRepository) Update(ctx context.Context, p *prize.Prize) error {
	query := `
		UPDATE prizes
		SET name = $1, probability = $2, quantity = $3, remaining = $4,
		    value = $5, currency = $6, color = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.Exec(
		ctx, query,
		p.Name, p.Probability, p.Quantity, p.Remaining,
		p.Value, p.Currency, p.Color, time.Now(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prize: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *PrizeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM prizes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prize: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
