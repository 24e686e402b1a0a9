// internal/repository/postgres/brand_repo.go
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

type BrandRepository struct {
	db *pgxpool.Pool
}

func NewBrandRepository(db *pgxpool.Pool) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) Create(ctx context.Context, b *brand.Brand) error {
	query := `
		INSERT INTO brands (merchant_id, name, logo_url, primary_color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		b.MerchantID, b.Name, b.LogoURL, b.PrimaryColor,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

func (r *BrandRepository) FindByID(ctx context.Context, id int64) (*brand.Brand, error) {
	query := `
		SELECT id, merchant_id, name, logo_url, primary_color, created_at, updated_at
		FROM brands
		WHERE id = $1
	`

	var b brand.Brand
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.MerchantID, &b.Name, &b.LogoURL, &b.PrimaryColor, &b.CreatedAt, &b.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find brand: %w", err)
	}

	return &b, nil
}

func (r *BrandRepository) ListByMerchant(ctx context.Context, merchantID int64) ([]brand.Brand, error) {
	query := `
		SELECT id, merchant_id, name, logo_url, primary_color, created_at, updated_at
		FROM brands
		WHERE merchant_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var brands []brand.Brand
	for rows.Next() {
		var b brand.Brand
		if err := rows.Scan(&b.ID, &b.MerchantID, &b.Name, &b.LogoURL, &b.PrimaryColor, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, b)
	}

	return brands, rows.Err()
}

func (r *BrandRepository) Update(ctx context.Context, b *brand.Brand) error {
	query := `
		UPDATE brands
		SET name = $1, logo_url = $2, primary_color = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(ctx, query, b.Name, b.LogoURL, b.PrimaryColor, time.Now(), b.ID)
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func (r *BrandRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
