// internal/handlers/participant/participant_handler.go
package participant

import (
	"net/http"
	"strconv"

	"reviewlottery-service/internal/middleware"
	"reviewlottery-service/internal/pkg/response"
	service "reviewlottery-service/internal/service/participant"

	"github.com/gin-gonic/gin"
)

// ParticipantHandler serves the merchant-facing participant views.
// The public funnel lives in the play handler.
type ParticipantHandler struct {
	participantService *service.ParticipantService
}

func NewParticipantHandler(participantService *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
	}
}

func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	participants, total, err := h.participantService.ListParticipants(c.Request.Context(), merchantID, campaignID, page, pageSize)
	if err != nil {
		response.FromError(c, "failed to list participants", err)
		return
	}

	response.Success(c, http.StatusOK, "participants", gin.H{
		"participants": participants,
		"total":        total,
	})
}

// Anonymize strips a participant's personal data on request
func (h *ParticipantHandler) Anonymize(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}
	participantID, err := pathID(c, "participant_id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid participant ID", err)
		return
	}

	if err := h.participantService.Anonymize(c.Request.Context(), merchantID, campaignID, participantID); err != nil {
		response.FromError(c, "failed to anonymize participant", err)
		return
	}

	response.Success(c, http.StatusOK, "participant anonymized successfully", nil)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
