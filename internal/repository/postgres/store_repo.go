// internal/repository/postgres/store_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewlottery-service/internal/domain/brand"
	xerrors "reviewlottery-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreRepository struct {
	db *pgxpool.Pool
}

func NewStoreRepository(db *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) Create(ctx context.Context, s *brand.Store) error {
	query := `
		INSERT INTO stores (brand_id, name, address, google_place_id, social_links)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.BrandID, s.Name, s.Address, s.GooglePlaceID, s.SocialLinks,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	return nil
}

func (r *StoreRepository) FindByID(ctx context.Context, id int64) (*brand.Store, error) {
	query := `
		SELECT id, brand_id, name, address, google_place_id, social_links, created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	var s brand.Store
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.BrandID, &s.Name, &s.Address, &s.GooglePlaceID, &s.SocialLinks, &s.CreatedAt, &s.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find store: %w", err)
	}

	return &s, nil
}

func (r *StoreRepository) ListByBrand(ctx context.Context, brandID int64) ([]brand.Store, error) {
	query := `
		SELECT id, brand_id, name, address, google_place_id, social_links, created_at, updated_at
		FROM stores
		WHERE brand_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var stores []brand.Store
	for rows.Next() {
		var s brand.Store
		if err := rows.Scan(&s.ID, &s.BrandID, &s.Name, &s.Address, &s.GooglePlaceID, &s.SocialLinks, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}

	return stores, rows.Err()
}

func (r *StoreRepository) Update(ctx context.Context, s *brand.Store) error {
	query := `
		UPDATE stores
		SET name = $1, address = $2, google_place_id = $3, social_links = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query, s.Name, s.Address, s.GooglePlaceID, s.SocialLinks, time.Now(), s.ID)
	if err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
