// internal/repository/postgres/campaign_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reviewlottery-service/internal/domain/campaign"
	xerrors "reviewlottery-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepository struct {
	db *pgxpool.Pool
}

func NewCampaignRepository(db *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `
	id, store_id, name, game_type, active, start_date, end_date,
	prize_claim_expiry_days, slot_symbols, scratch_pattern, created_at, updated_at`

func scanCampaign(row pgx.Row, c *campaign.Campaign) error {
	return row.Scan(
		&c.ID, &c.StoreID, &c.Name, &c.GameType, &c.Active, &c.StartDate, &c.EndDate,
		&c.PrizeClaimExpiryDays, &c.SlotSymbols, &c.ScratchPattern, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	query := `
		INSERT INTO campaigns (
			store_id, name, game_type, active, start_date, end_date,
			prize_claim_expiry_days, slot_symbols, scratch_pattern
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.StoreID, c.Name, c.GameType, c.Active, c.StartDate, c.EndDate,
		c.PrizeClaimExpiryDays, c.SlotSymbols, c.ScratchPattern,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id int64) (*campaign.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	var c campaign.Campaign
	err := scanCampaign(r.db.QueryRow(ctx, query, id), &c)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}

	return &c, nil
}

func (r *CampaignRepository) FindByIDWithConditions(ctx context.Context, id int64) (*campaign.Campaign, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	conditions, err := r.ListConditions(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Conditions = conditions

	return c, nil
}

func (r *CampaignRepository) List(ctx context.Context, filters *campaign.CampaignListFilters) ([]campaign.Campaign, int64, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.StoreID != nil {
		where = append(where, fmt.Sprintf("store_id = $%d", argPos))
		args = append(args, *filters.StoreID)
		argPos++
	}
	if filters.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *filters.Active)
		argPos++
	}
	if filters.GameType != nil {
		where = append(where, fmt.Sprintf("game_type = $%d", argPos))
		args = append(args, *filters.GameType)
		argPos++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE ` + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM campaigns WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		campaignColumns, whereClause, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []campaign.Campaign
	for rows.Next() {
		var c campaign.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, total, rows.Err()
}

func (r *CampaignRepository) Update(ctx context.Context, c *campaign.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $1, start_date = $2, end_date = $3, prize_claim_expiry_days = $4,
		    slot_symbols = $5, scratch_pattern = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(
		ctx, query,
		c.Name, c.StartDate, c.EndDate, c.PrizeClaimExpiryDays,
		c.SlotSymbols, c.ScratchPattern, time.Now(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *CampaignRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(
		ctx,
		`UPDATE campaigns SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign active flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *CampaignRepository) Stats(ctx context.Context, id int64) (*campaign.CampaignStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM participants WHERE campaign_id = $1),
			(SELECT COUNT(*) FROM participants WHERE campaign_id = $1 AND has_played),
			(SELECT COUNT(*) FROM winners WHERE campaign_id = $1),
			(SELECT COUNT(*) FROM winners WHERE campaign_id = $1 AND status = 'CLAIMED'),
			(SELECT COUNT(*) FROM winners WHERE campaign_id = $1 AND status = 'EXPIRED'),
			(SELECT COALESCE(AVG(review_rating), 0) FROM participants WHERE campaign_id = $1 AND review_rating IS NOT NULL)
	`

	var s campaign.CampaignStats
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.TotalParticipants, &s.TotalPlays, &s.TotalWinners,
		&s.ClaimedWinners, &s.ExpiredWinners, &s.AverageRating,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign stats: %w", err)
	}

	return &s, nil
}

// ========== Conditions ==========

func (r *CampaignRepository) CreateCondition(ctx context.Context, cond *campaign.Condition) error {
	query := `
		INSERT INTO campaign_conditions (campaign_id, type, condition_order, is_required, label, target_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		cond.CampaignID, cond.Type, cond.Order, cond.IsRequired, cond.Label, cond.TargetURL,
	).Scan(&cond.ID, &cond.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create condition: %w", err)
	}

	return nil
}

func (r *CampaignRepository) ListConditions(ctx context.Context, campaignID int64) ([]campaign.Condition, error) {
	query := `
		SELECT id, campaign_id, type, condition_order, is_required, label, target_url, created_at
		FROM campaign_conditions
		WHERE campaign_id = $1
		ORDER BY condition_order
	`

	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conditions: %w", err)
	}
	defer rows.Close()

	var conditions []campaign.Condition
	for rows.Next() {
		var c campaign.Condition
		if err := rows.Scan(&c.ID, &c.CampaignID, &c.Type, &c.Order, &c.IsRequired, &c.Label, &c.TargetURL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan condition: %w", err)
		}
		conditions = append(conditions, c)
	}

	return conditions, rows.Err()
}

func (r *CampaignRepository) DeleteCondition(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM campaign_conditions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete condition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
