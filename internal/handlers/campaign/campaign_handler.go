// internal/handlers/campaign/campaign_handler.go
package campaign

import (
	"net/http"
	"strconv"

	"reviewlottery-service/internal/domain/campaign"
	"reviewlottery-service/internal/middleware"
	"reviewlottery-service/internal/pkg/response"
	service "reviewlottery-service/internal/service/campaign"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
}

func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// CreateCampaign creates a campaign with its conditions
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req campaign.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.campaignService.CreateCampaign(c.Request.Context(), merchantID, &req)
	if err != nil {
		response.FromError(c, "failed to create campaign", err)
		return
	}

	response.Success(c, http.StatusCreated, "campaign created successfully", result)
}

func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	result, err := h.campaignService.GetCampaign(c.Request.Context(), merchantID, campaignID)
	if err != nil {
		response.FromError(c, "failed to load campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign", result)
}

func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var filters campaign.CampaignListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.campaignService.ListCampaigns(c.Request.Context(), merchantID, &filters)
	if err != nil {
		response.FromError(c, "failed to list campaigns", err)
		return
	}

	response.Success(c, http.StatusOK, "campaigns", result)
}

func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	var req campaign.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.campaignService.UpdateCampaign(c.Request.Context(), merchantID, campaignID, &req)
	if err != nil {
		response.FromError(c, "failed to update campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign updated successfully", result)
}

// ActivateCampaign switches a campaign live after configuration checks
func (h *CampaignHandler) ActivateCampaign(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	if err := h.campaignService.Activate(c.Request.Context(), merchantID, campaignID); err != nil {
		response.FromError(c, "failed to activate campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign activated successfully", nil)
}

func (h *CampaignHandler) DeactivateCampaign(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	if err := h.campaignService.Deactivate(c.Request.Context(), merchantID, campaignID); err != nil {
		response.FromError(c, "failed to deactivate campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign deactivated successfully", nil)
}

func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), merchantID, campaignID); err != nil {
		response.FromError(c, "failed to delete campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign deleted successfully", nil)
}

func (h *CampaignHandler) GetStats(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	stats, err := h.campaignService.GetStats(c.Request.Context(), merchantID, campaignID)
	if err != nil {
		response.FromError(c, "failed to load campaign stats", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign stats", stats)
}

// AddCondition appends a condition to the campaign funnel
func (h *CampaignHandler) AddCondition(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	var req campaign.CreateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	cond, err := h.campaignService.AddCondition(c.Request.Context(), merchantID, campaignID, &req)
	if err != nil {
		response.FromError(c, "failed to add condition", err)
		return
	}

	response.Success(c, http.StatusCreated, "condition added successfully", cond)
}

func (h *CampaignHandler) RemoveCondition(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}
	conditionID, err := pathID(c, "condition_id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid condition ID", err)
		return
	}

	if err := h.campaignService.RemoveCondition(c.Request.Context(), merchantID, campaignID, conditionID); err != nil {
		response.FromError(c, "failed to remove condition", err)
		return
	}

	response.Success(c, http.StatusOK, "condition removed successfully", nil)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
