// internal/repository/postgres/review_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reviewlottery-service/internal/domain/review"
	xerrors "reviewlottery-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert inserts a synced review, keeping the existing row when the
// provider re-delivers the same (store, author, published_at) triple.
func (r *ReviewRepository) Upsert(ctx context.Context, rv *review.Review) error {
	query := `
		INSERT INTO reviews (store_id, author_email, author_name, rating, comment, source, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (store_id, author_email, published_at)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, synced_at = now()
		RETURNING id, synced_at
	`

	err := r.db.QueryRow(
		ctx, query,
		rv.StoreID, rv.AuthorEmail, rv.AuthorName, rv.Rating, rv.Comment, rv.Source, rv.PublishedAt,
	).Scan(&rv.ID, &rv.SyncedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) FindByEmailAndStore(ctx context.Context, email string, storeID int64) (*review.Review, error) {
	query := `
		SELECT id, store_id, author_email, author_name, rating, comment, source, published_at, synced_at
		FROM reviews
		WHERE store_id = $1 AND lower(author_email) = $2
		ORDER BY published_at DESC
		LIMIT 1
	`

	var rv review.Review
	err := r.db.QueryRow(ctx, query, storeID, strings.ToLower(email)).Scan(
		&rv.ID, &rv.StoreID, &rv.AuthorEmail, &rv.AuthorName, &rv.Rating, &rv.Comment,
		&rv.Source, &rv.PublishedAt, &rv.SyncedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return &rv, nil
}

func (r *ReviewRepository) ListByStore(ctx context.Context, storeID int64, page, pageSize int) ([]review.Review, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE store_id = $1`, storeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `
		SELECT id, store_id, author_email, author_name, rating, comment, source, published_at, synced_at
		FROM reviews
		WHERE store_id = $1
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, storeID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []review.Review
	for rows.Next() {
		var rv review.Review
		err := rows.Scan(
			&rv.ID, &rv.StoreID, &rv.AuthorEmail, &rv.AuthorName, &rv.Rating, &rv.Comment,
			&rv.Source, &rv.PublishedAt, &rv.SyncedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	return reviews, total, rows.Err()
}
