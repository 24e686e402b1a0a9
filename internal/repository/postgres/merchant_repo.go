// internal/repository/postgres/merchant_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reviewlottery-service/internal/domain/merchant"
	xerrors "reviewlottery-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MerchantRepository struct {
	db *pgxpool.Pool
}

func NewMerchantRepository(db *pgxpool.Pool) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func (r *MerchantRepository) Create(ctx context.Context, m *merchant.Merchant) error {
	query := `
		INSERT INTO merchants (email, password_hash, full_name, email_verified, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		strings.ToLower(m.Email), m.PasswordHash, m.FullName, m.EmailVerified, m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create merchant: %w", err)
	}

	return nil
}

func (r *MerchantRepository) FindByID(ctx context.Context, id int64) (*merchant.Merchant, error) {
	return r.findBy(ctx, "id = $1", id)
}

func (r *MerchantRepository) FindByEmail(ctx context.Context, email string) (*merchant.Merchant, error) {
	return r.findBy(ctx, "email = $1", strings.ToLower(email))
}

func (r *MerchantRepository) findBy(ctx context.Context, where string, arg interface{}) (*merchant.Merchant, error) {
	query := `
		SELECT id, email, password_hash, full_name, email_verified, status,
		       last_login_at, created_at, updated_at
		FROM merchants
		WHERE ` + where

	var m merchant.Merchant
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&m.ID, &m.Email, &m.PasswordHash, &m.FullName, &m.EmailVerified, &m.Status,
		&m.LastLoginAt, &m.CreatedAt, &m.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find merchant: %w", err)
	}

	return &m, nil
}

func (r *MerchantRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE merchants SET last_login_at = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, at, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
