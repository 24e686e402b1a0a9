// internal/domain/merchant/entity.go
package merchant

import (
	"database/sql"
	"time"
)

type MerchantStatus string

const (
	MerchantStatusActive      MerchantStatus = "active"
	MerchantStatusDeactivated MerchantStatus = "deactivated"
)

// Merchant is a dashboard account owning one or more brands.
type Merchant struct {
	ID            int64          `json:"id" db:"id"`
	Email         string         `json:"email" db:"email"`
	PasswordHash  string         `json:"-" db:"password_hash"`
	FullName      string         `json:"full_name" db:"full_name"`
	EmailVerified bool           `json:"email_verified" db:"email_verified"`
	Status        MerchantStatus `json:"status" db:"status"`
	LastLoginAt   sql.NullTime   `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}
