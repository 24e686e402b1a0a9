// internal/handlers/play/play_handler.go
package play

import (
	"net/http"
	"strconv"

	"reviewlottery-service/internal/domain/participant"
	"reviewlottery-service/internal/pkg/response"
	"reviewlottery-service/internal/pkg/session"
	participantsvc "reviewlottery-service/internal/service/participant"
	service "reviewlottery-service/internal/service/play"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlayHandler serves the public participant funnel: eligibility checks,
// condition completion, the play itself and the review submission.
// None of these routes require merchant authentication.
type PlayHandler struct {
	playService        *service.PlayService
	participantService *participantsvc.ParticipantService
	rateLimiter        *session.RateLimiter
	logger             *zap.Logger
}

func NewPlayHandler(
	playService *service.PlayService,
	participantService *participantsvc.ParticipantService,
	rateLimiter *session.RateLimiter,
	logger *zap.Logger,
) *PlayHandler {
	return &PlayHandler{
		playService:        playService,
		participantService: participantService,
		rateLimiter:        rateLimiter,
		logger:             logger,
	}
}

// CheckEligibility registers the visit and reports funnel progress
func (h *PlayHandler) CheckEligibility(c *gin.Context) {
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	var req participant.EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.participantService.CheckEligibility(c.Request.Context(), campaignID, req.Email)
	if err != nil {
		response.FromError(c, "eligibility check failed", err)
		return
	}

	response.Success(c, http.StatusOK, "eligibility", result)
}

// CompleteCondition records one funnel step for the participant
func (h *PlayHandler) CompleteCondition(c *gin.Context) {
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

	var req participant.CompleteConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.participantService.CompleteCondition(c.Request.Context(), campaignID, conditionID, req.Email)
	if err != nil {
		response.FromError(c, "failed to complete condition", err)
		return
	}

	response.Success(c, http.StatusOK, "condition completed", result)
}

// Play consumes the participant's single play and returns the outcome
// with its animation payload.
func (h *PlayHandler) Play(c *gin.Context) {
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	allowed, err := h.rateLimiter.CheckPlayAttempt(c.Request.Context(), c.ClientIP(), campaignID)
	if err != nil {
		// Redis trouble should not block plays
		h.logger.Warn("play rate limit check failed", zap.Error(err))
	} else if !allowed {
		response.Error(c, http.StatusTooManyRequests, "too many play attempts, slow down", nil)
		return
	}

	var req service.PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.playService.Play(c.Request.Context(), campaignID, &req)
	if err != nil {
		response.FromError(c, "play failed", err)
		return
	}

	response.Success(c, http.StatusOK, "play resolved", result)
}

// SubmitReview stores the participant's rating and comment
func (h *PlayHandler) SubmitReview(c *gin.Context) {
	campaignID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	var req participant.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.participantService.SubmitReview(c.Request.Context(), campaignID, &req); err != nil {
		response.FromError(c, "failed to submit review", err)
		return
	}

	response.Success(c, http.StatusOK, "review submitted successfully", nil)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
