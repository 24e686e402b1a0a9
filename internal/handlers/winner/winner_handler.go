// internal/handlers/winner/winner_handler.go
package winner

import (
	"net/http"
	"strconv"

	"reviewlottery-service/internal/domain/winner"
	"reviewlottery-service/internal/middleware"
	"reviewlottery-service/internal/pkg/response"
	"reviewlottery-service/internal/pkg/session"
	service "reviewlottery-service/internal/service/claim"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WinnerHandler struct {
	claimService *service.ClaimService
	rateLimiter  *session.RateLimiter
	logger       *zap.Logger
}

func NewWinnerHandler(claimService *service.ClaimService, rateLimiter *session.RateLimiter, logger *zap.Logger) *WinnerHandler {
	return &WinnerHandler{
		claimService: claimService,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

// Lookup is public: a participant checks a claim code without
// consuming it.
func (h *WinnerHandler) Lookup(c *gin.Context) {
	allowed, err := h.rateLimiter.CheckClaimAttempt(c.Request.Context(), c.ClientIP())
	if err != nil {
		h.logger.Warn("claim rate limit check failed", zap.Error(err))
	} else if !allowed {
		response.Error(c, http.StatusTooManyRequests, "too many claim attempts, slow down", nil)
		return
	}

	code := c.Param("code")
	w, err := h.claimService.Lookup(c.Request.Context(), code)
	if err != nil {
		response.FromError(c, "claim code not found", err)
		return
	}

	response.Success(c, http.StatusOK, "winner", w)
}

// Claim redeems a claim code at the counter. Merchant-only.
func (h *WinnerHandler) Claim(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req winner.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	w, err := h.claimService.Claim(c.Request.Context(), merchantID, req.ClaimCode)
	if err != nil {
		response.FromError(c, "failed to claim prize", err)
		return
	}

	response.Success(c, http.StatusOK, "prize claimed successfully", w)
}

// Cancel voids a pending win and restores prize stock
func (h *WinnerHandler) Cancel(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	winnerID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid winner ID", err)
		return
	}

	w, err := h.claimService.Cancel(c.Request.Context(), merchantID, winnerID)
	if err != nil {
		response.FromError(c, "failed to cancel winner", err)
		return
	}

	response.Success(c, http.StatusOK, "winner cancelled successfully", w)
}

func (h *WinnerHandler) ListWinners(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var filters winner.WinnerListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.claimService.ListWinners(c.Request.Context(), merchantID, &filters)
	if err != nil {
		response.FromError(c, "failed to list winners", err)
		return
	}

	response.Success(c, http.StatusOK, "winners", result)
}

// SweepExpired transitions overdue pending wins to EXPIRED on demand.
// The background sweeper does the same on a timer.
func (h *WinnerHandler) SweepExpired(c *gin.Context) {
	batchSize := 500
	if raw := c.Query("batch_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, http.StatusBadRequest, "invalid batch size", err)
			return
		}
		batchSize = n
	}

	expired, err := h.claimService.SweepExpired(c.Request.Context(), batchSize)
	if err != nil {
		response.FromError(c, "failed to sweep expired winners", err)
		return
	}

	response.Success(c, http.StatusOK, "expired winners swept", gin.H{"expired": expired})
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
