// internal/domain/review/entity.go
package review

import (
	"database/sql"
	"time"
)

// Review is a published external review synced for a store. Only the
// (email, store) lookup matters for condition verification; the rest is
// kept for the dashboard.
type Review struct {
	ID          int64          `json:"id" db:"id"`
	StoreID     int64          `json:"store_id" db:"store_id"`
	AuthorEmail sql.NullString `json:"author_email,omitempty" db:"author_email"`
	AuthorName  sql.NullString `json:"author_name,omitempty" db:"author_name"`
	Rating      int            `json:"rating" db:"rating"`
	Comment     sql.NullString `json:"comment,omitempty" db:"comment"`
	Source      string         `json:"source" db:"source"`
	PublishedAt time.Time      `json:"published_at" db:"published_at"`
	SyncedAt    time.Time      `json:"synced_at" db:"synced_at"`
}
