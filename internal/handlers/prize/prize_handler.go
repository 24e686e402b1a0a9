// internal/handlers/prize/prize_handler.go
package prize

import (
	"net/http"
	"strconv"

	"reviewlottery-service/internal/domain/prize"
	"reviewlottery-service/internal/middleware"
	"reviewlottery-service/internal/pkg/response"
	service "reviewlottery-service/internal/service/prize"

	"github.com/gin-gonic/gin"
)

type PrizeHandler struct {
	prizeService *service.PrizeService
}

func NewPrizeHandler(prizeService *service.PrizeService) *PrizeHandler {
	return &PrizeHandler{
		prizeService: prizeService,
	}
}

func (h *PrizeHandler) CreatePrize(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	var req prize.CreatePrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.prizeService.CreatePrize(c.Request.Context(), merchantID, campaignID, &req)
	if err != nil {
		response.FromError(c, "failed to create prize", err)
		return
	}

	response.Success(c, http.StatusCreated, "prize created successfully", p)
}

func (h *PrizeHandler) ListPrizes(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	prizes, err := h.prizeService.ListPrizes(c.Request.Context(), merchantID, campaignID)
	if err != nil {
		response.FromError(c, "failed to list prizes", err)
		return
	}

	response.Success(c, http.StatusOK, "prizes", prizes)
}

func (h *PrizeHandler) UpdatePrize(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	prizeID, err := pathID(c, "prize_id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid prize ID", err)
		return
	}

	var req prize.UpdatePrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.prizeService.UpdatePrize(c.Request.Context(), merchantID, prizeID, &req)
	if err != nil {
		response.FromError(c, "failed to update prize", err)
		return
	}

	response.Success(c, http.StatusOK, "prize updated successfully", p)
}

func (h *PrizeHandler) DeletePrize(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	prizeID, err := pathID(c, "prize_id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid prize ID", err)
		return
	}

	if err := h.prizeService.DeletePrize(c.Request.Context(), merchantID, prizeID); err != nil {
		response.FromError(c, "failed to delete prize", err)
		return
	}

	response.Success(c, http.StatusOK, "prize deleted successfully", nil)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
