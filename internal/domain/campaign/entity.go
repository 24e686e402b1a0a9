// internal/domain/campaign/entity.go
package campaign

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type GameType string

const (
	GameTypeWheel   GameType = "wheel"
	GameTypeSlot    GameType = "slot"
	GameTypeScratch GameType = "scratch"
)

type ConditionType string

const (
	ConditionGoogleReview   ConditionType = "GOOGLE_REVIEW"
	ConditionInstagramFollow ConditionType = "INSTAGRAM_FOLLOW"
	ConditionTikTokFollow   ConditionType = "TIKTOK_FOLLOW"
	ConditionNewsletter     ConditionType = "NEWSLETTER"
	ConditionLoyaltyProgram ConditionType = "LOYALTY_PROGRAM"
	ConditionCustomRedirect ConditionType = "CUSTOM_REDIRECT"
)

// Campaign is a promotional unit owned by a store: a sequence of
// conditions gating a chance-based game over a prize pool.
type Campaign struct {
	ID      int64  `json:"id" db:"id"`
	StoreID int64  `json:"store_id" db:"store_id"`
	Name    string `json:"name" db:"name"`

	GameType GameType `json:"game_type" db:"game_type"`
	Active   bool     `json:"active" db:"active"`

	// Optional activity window. A campaign with no dates is active
	// whenever the flag is set.
	StartDate sql.NullTime `json:"start_date,omitempty" db:"start_date"`
	EndDate   sql.NullTime `json:"end_date,omitempty" db:"end_date"`

	// Days a winner has to redeem a claim code.
	PrizeClaimExpiryDays int `json:"prize_claim_expiry_days" db:"prize_claim_expiry_days"`

	// Game presentation config. Slot symbols are per-campaign; scratch
	// campaigns carry a win-pattern name.
	SlotSymbols    pq.StringArray `json:"slot_symbols,omitempty" db:"slot_symbols"`
	ScratchPattern sql.NullString `json:"scratch_pattern,omitempty" db:"scratch_pattern"`

	Conditions []Condition `json:"conditions,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Condition is one ordered gating step of a campaign.
type Condition struct {
	ID         int64          `json:"id" db:"id"`
	CampaignID int64          `json:"campaign_id" db:"campaign_id"`
	Type       ConditionType  `json:"type" db:"type"`
	Order      int            `json:"order" db:"condition_order"`
	IsRequired bool           `json:"is_required" db:"is_required"`
	Label      string         `json:"label" db:"label"`
	TargetURL  sql.NullString `json:"target_url,omitempty" db:"target_url"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// ClaimDeadline is the redeem-by instant for a prize won now.
func (c *Campaign) ClaimDeadline(now time.Time) time.Time {
	days := c.PrizeClaimExpiryDays
	if days <= 0 {
		days = 30
	}
	return now.AddDate(0, 0, days)
}

// IsWithinWindow reports whether now falls inside the optional
// start/end dates.
func (c *Campaign) IsWithinWindow(now time.Time) bool {
	if c.StartDate.Valid && now.Before(c.StartDate.Time) {
		return false
	}
	if c.EndDate.Valid && now.After(c.EndDate.Time) {
		return false
	}
	return true
}

type CampaignStats struct {
	TotalParticipants int64   `json:"total_participants"`
	TotalPlays        int64   `json:"total_plays"`
	TotalWinners      int64   `json:"total_winners"`
	ClaimedWinners    int64   `json:"claimed_winners"`
	ExpiredWinners    int64   `json:"expired_winners"`
	AverageRating     float64 `json:"average_rating"`
}
