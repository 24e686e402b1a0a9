// internal/repository/postgres/participant_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"reviewlottery-service/internal/domain/participant"
	xerrors "reviewlottery-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepository struct {
	db *pgxpool.Pool
}

func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) error {
	completed, err := json.Marshal(p.CompletedConditions)
	if err != nil {
		return fmt.Errorf("failed to marshal completed conditions: %w", err)
	}

	query := `
		INSERT INTO participants (campaign_id, email, has_played, current_condition_order, completed_conditions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(
		ctx, query,
		p.CampaignID, strings.ToLower(p.Email), p.HasPlayed, p.CurrentConditionOrder, completed,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id int64) (*participant.Participant, error) {
	return r.findBy(ctx, "id = $1", id)
}

func (r *ParticipantRepository) FindByEmailAndCampaign(ctx context.Context, email string, campaignID int64) (*participant.Participant, error) {
	return r.findBy(ctx, "email = $1 AND campaign_id = $2", strings.ToLower(email), campaignID)
}

func (r *ParticipantRepository) findBy(ctx context.Context, where string, args ...interface{}) (*participant.Participant, error) {
	query := `
		SELECT id, campaign_id, email, has_played, current_condition_order,
		       completed_conditions, review_rating, review_comment, anonymized_at,
		       created_at, updated_at
		FROM participants
		WHERE ` + where

	var p participant.Participant
	var completed []byte
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.CampaignID, &p.Email, &p.HasPlayed, &p.CurrentConditionOrder,
		&completed, &p.ReviewRating, &p.ReviewComment, &p.AnonymizedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}

	if err := json.Unmarshal(completed, &p.CompletedConditions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal completed conditions: %w", err)
	}

	return &p, nil
}

func (r *ParticipantRepository) ListByCampaign(ctx context.Context, campaignID int64, page, pageSize int) ([]participant.Participant, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM participants WHERE campaign_id = $1`, campaignID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count participants: %w", err)
	}

	query := `
		SELECT id, campaign_id, email, has_played, current_condition_order,
		       completed_conditions, review_rating, review_comment, anonymized_at,
		       created_at, updated_at
		FROM participants
		WHERE campaign_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, campaignID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []participant.Participant
	for rows.Next() {
		var p participant.Participant
		var completed []byte
		err := rows.Scan(
			&p.ID, &p.CampaignID, &p.Email, &p.HasPlayed, &p.CurrentConditionOrder,
			&completed, &p.ReviewRating, &p.ReviewComment, &p.AnonymizedAt,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan participant: %w", err)
		}
		if err := json.Unmarshal(completed, &p.CompletedConditions); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal completed conditions: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, total, rows.Err()
}

func (r *ParticipantRepository) UpdateProgress(ctx context.Context, p *participant.Participant) error {
	completed, err := json.Marshal(p.CompletedConditions)
	if err != nil {
		return fmt.Errorf("failed to marshal completed conditions: %w", err)
	}

	query := `
		UPDATE participants
		SET current_condition_order = $1, completed_conditions = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(ctx, query, p.CurrentConditionOrder, completed, time.Now(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update participant progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// MarkPlayed flips has_played exactly once. A second call finds no
// matching row and reports a conflict, which is what guards one play
// per participant under concurrent requests.
func (r *ParticipantRepository) MarkPlayed(ctx context.Context, id int64) error {
	query := `UPDATE participants SET has_played = TRUE, updated_at = $1 WHERE id = $2 AND has_played = FALSE`

	result, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark participant played: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrAlreadyPlayed
	}

	return nil
}

func (r *ParticipantRepository) SaveReview(ctx context.Context, id int64, rating int, comment string) error {
	query := `UPDATE participants SET review_rating = $1, review_comment = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.Exec(ctx, query, rating, comment, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to save participant review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Anonymize blanks the personal fields in place of deleting the row,
// so aggregate campaign stats stay intact.
func (r *ParticipantRepository) Anonymize(ctx context.Context, id int64) error {
	query := `
		UPDATE participants
		SET email = 'anonymized-' || id || '@removed.invalid',
		    review_comment = NULL,
		    anonymized_at = $1,
		    updated_at = $1
		WHERE id = $2 AND anonymized_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to anonymize participant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
