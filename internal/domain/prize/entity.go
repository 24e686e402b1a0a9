// internal/domain/prize/entity.go
package prize

import (
	"time"
)

// Prize is a stocked, probability-weighted reward belonging to a campaign.
// Invariant: 0 <= Remaining <= Quantity. Remaining is only mutated through
// the repository's conditional decrement/restore, never read-then-write.
type Prize struct {
	ID         int64  `json:"id" db:"id"`
	CampaignID int64  `json:"campaign_id" db:"campaign_id"`
	Name       string `json:"name" db:"name"`

	// Share of the 100% probability mass, 0..100.
	Probability float64 `json:"probability" db:"probability"`

	Quantity  int `json:"quantity" db:"quantity"`
	Remaining int `json:"remaining" db:"remaining"`

	Value    float64 `json:"value" db:"value"`
	Currency string  `json:"currency" db:"currency"`
	Color    string  `json:"color" db:"color"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InStock reports whether the prize can still be awarded.
func (p *Prize) InStock() bool { return p.Remaining > 0 }
