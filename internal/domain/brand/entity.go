// internal/domain/brand/entity.go
package brand

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Brand groups the stores of one merchant under shared branding.
type Brand struct {
	ID           int64          `json:"id" db:"id"`
	MerchantID   int64          `json:"merchant_id" db:"merchant_id"`
	Name         string         `json:"name" db:"name"`
	LogoURL      sql.NullString `json:"logo_url,omitempty" db:"logo_url"`
	PrimaryColor sql.NullString `json:"primary_color,omitempty" db:"primary_color"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Store is a physical location campaigns are attached to.
type Store struct {
	ID            int64          `json:"id" db:"id"`
	BrandID       int64          `json:"brand_id" db:"brand_id"`
	Name          string         `json:"name" db:"name"`
	Address       sql.NullString `json:"address,omitempty" db:"address"`
	GooglePlaceID sql.NullString `json:"google_place_id,omitempty" db:"google_place_id"`
	SocialLinks   pq.StringArray `json:"social_links,omitempty" db:"social_links"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}
