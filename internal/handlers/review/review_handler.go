// internal/handlers/review/review_handler.go
package review

import (
	"net/http"
	"strconv"

	"reviewlottery-service/internal/middleware"
	"reviewlottery-service/internal/pkg/response"
	service "reviewlottery-service/internal/service/review"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

type recordReviewRequest struct {
	AuthorEmail string `json:"author_email" binding:"required,email"`
	AuthorName  string `json:"author_name" binding:"max=200"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Comment     string `json:"comment" binding:"max=4000"`
}

// SyncReviews pulls the latest reviews for a store from its provider
func (h *ReviewHandler) SyncReviews(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	storeID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid store ID", err)
		return
	}

	count, err := h.reviewService.SyncStoreReviews(c.Request.Context(), merchantID, storeID)
	if err != nil {
		response.FromError(c, "failed to sync reviews", err)
		return
	}

	response.Success(c, http.StatusOK, "reviews synced successfully", gin.H{"synced": count})
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	storeID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid store ID", err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reviews, total, err := h.reviewService.ListReviews(c.Request.Context(), merchantID, storeID, page, pageSize)
	if err != nil {
		response.FromError(c, "failed to list reviews", err)
		return
	}

	response.Success(c, http.StatusOK, "reviews", gin.H{
		"reviews": reviews,
		"total":   total,
	})
}

// RecordReview stores a manually verified review
func (h *ReviewHandler) RecordReview(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	storeID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid store ID", err)
		return
	}

	var req recordReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.reviewService.RecordManualReview(c.Request.Context(), merchantID, storeID, req.AuthorEmail, req.AuthorName, req.Rating, req.Comment); err != nil {
		response.FromError(c, "failed to record review", err)
		return
	}

	response.Success(c, http.StatusCreated, "review recorded successfully", nil)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
