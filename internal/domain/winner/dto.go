// internal/domain/winner/dto.go
package winner

type ClaimRequest struct {
	ClaimCode string `json:"claim_code" binding:"required"`
}

type WinnerListFilters struct {
	CampaignID *int64        `form:"campaign_id"`
	Status     *WinnerStatus `form:"status"`
	Page       int           `form:"page" binding:"min=0"`
	PageSize   int           `form:"page_size" binding:"min=0,max=100"`
}

type WinnerListResponse struct {
	Winners    []Winner `json:"winners"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}
