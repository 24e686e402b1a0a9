// internal/domain/participant/entity.go
package participant

import (
	"database/sql"
	"time"
)

// Participant is one (email, campaign) identity tracked through the
// condition/play funnel. Rows are never deleted; GDPR erasure blanks
// the personal fields and keeps the row for aggregate stats.
type Participant struct {
	ID         int64  `json:"id" db:"id"`
	CampaignID int64  `json:"campaign_id" db:"campaign_id"`
	Email      string `json:"email" db:"email"`

	HasPlayed             bool `json:"has_played" db:"has_played"`
	CurrentConditionOrder int  `json:"current_condition_order" db:"current_condition_order"`

	// Append-only, persisted as JSONB.
	CompletedConditions []CompletedCondition `json:"completed_conditions" db:"completed_conditions"`

	ReviewRating  sql.NullInt32  `json:"review_rating,omitempty" db:"review_rating"`
	ReviewComment sql.NullString `json:"review_comment,omitempty" db:"review_comment"`

	AnonymizedAt sql.NullTime `json:"anonymized_at,omitempty" db:"anonymized_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CompletedCondition is one checked-off campaign condition.
type CompletedCondition struct {
	ConditionID int64     `json:"condition_id"`
	Type        string    `json:"type"`
	CompletedAt time.Time `json:"completed_at"`
}

// HasCompleted reports whether the given condition was already checked off.
func (p *Participant) HasCompleted(conditionID int64) bool {
	for _, c := range p.CompletedConditions {
		if c.ConditionID == conditionID {
			return true
		}
	}
	return false
}
