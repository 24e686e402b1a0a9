// internal/domain/campaign/dto.go
package campaign

import "time"

type CreateCampaignRequest struct {
	StoreID int64    `json:"store_id" binding:"required"`
	Name    string   `json:"name" binding:"required,max=255"`
	GameType GameType `json:"game_type" binding:"required,oneof=wheel slot scratch"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	PrizeClaimExpiryDays int `json:"prize_claim_expiry_days" binding:"omitempty,min=1,max=365"`

	SlotSymbols    []string `json:"slot_symbols"`
	ScratchPattern string   `json:"scratch_pattern" binding:"omitempty,oneof=THREE_IN_ROW ALL_MATCH ANY_THREE"`

	Conditions []CreateConditionRequest `json:"conditions"`
}

type CreateConditionRequest struct {
	Type       ConditionType `json:"type" binding:"required,oneof=GOOGLE_REVIEW INSTAGRAM_FOLLOW TIKTOK_FOLLOW NEWSLETTER LOYALTY_PROGRAM CUSTOM_REDIRECT"`
	Order      int           `json:"order" binding:"min=0"`
	IsRequired *bool         `json:"is_required"`
	Label      string        `json:"label" binding:"required,max=255"`
	TargetURL  string        `json:"target_url" binding:"omitempty,url"`
}

type UpdateCampaignRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	PrizeClaimExpiryDays *int `json:"prize_claim_expiry_days" binding:"omitempty,min=1,max=365"`

	SlotSymbols    []string `json:"slot_symbols"`
	ScratchPattern *string  `json:"scratch_pattern" binding:"omitempty,oneof=THREE_IN_ROW ALL_MATCH ANY_THREE"`
}

type CampaignListFilters struct {
	StoreID  *int64 `form:"store_id"`
	Active   *bool  `form:"active"`
	GameType *GameType `form:"game_type"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

type CampaignListResponse struct {
	Campaigns  []Campaign `json:"campaigns"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
