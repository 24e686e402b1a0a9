// internal/app/router.go
package app

import (
	authHandler "reviewlottery-service/internal/handlers/auth"
	brandHandler "reviewlottery-service/internal/handlers/brand"
	campaignHandler "reviewlottery-service/internal/handlers/campaign"
	participantHandler "reviewlottery-service/internal/handlers/participant"
	playHandler "reviewlottery-service/internal/handlers/play"
	prizeHandler "reviewlottery-service/internal/handlers/prize"
	reviewHandler "reviewlottery-service/internal/handlers/review"
	websocketHandler "reviewlottery-service/internal/handlers/websocket"
	winnerHandler "reviewlottery-service/internal/handlers/winner"
	"reviewlottery-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	BrandHandler       *brandHandler.BrandHandler
	CampaignHandler    *campaignHandler.CampaignHandler
	PrizeHandler       *prizeHandler.PrizeHandler
	ParticipantHandler *participantHandler.ParticipantHandler
	PlayHandler        *playHandler.PlayHandler
	WinnerHandler      *winnerHandler.WinnerHandler
	ReviewHandler      *reviewHandler.ReviewHandler
	WSHandler          *websocketHandler.WebSocketHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Participant Routes ====================
	// The play widget talks to these without merchant credentials.
	public := api.Group("/public")
	{
		publicCampaigns := public.Group("/campaigns/:id")
		{
			publicCampaigns.POST("/eligibility", h.PlayHandler.CheckEligibility)
			publicCampaigns.POST("/conditions/:condition_id/complete", h.PlayHandler.CompleteCondition)
			publicCampaigns.POST("/play", h.PlayHandler.Play)
			publicCampaigns.POST("/review", h.PlayHandler.SubmitReview)
		}

		public.GET("/claims/:code", h.WinnerHandler.Lookup)
	}

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Profile)
	}

	// ==================== Brands & Stores ====================
	brands := api.Group("/brands")
	brands.Use(h.AuthMiddleware.Auth())
	{
		brands.POST("", h.BrandHandler.CreateBrand)
		brands.GET("", h.BrandHandler.ListBrands)
		brands.GET("/:id", h.BrandHandler.GetBrand)
		brands.PUT("/:id", h.BrandHandler.UpdateBrand)
		brands.DELETE("/:id", h.BrandHandler.DeleteBrand)

		brands.POST("/:id/stores", h.BrandHandler.CreateStore)
		brands.GET("/:id/stores", h.BrandHandler.ListStores)
	}

	stores := api.Group("/stores")
	stores.Use(h.AuthMiddleware.Auth())
	{
		stores.GET("/:id", h.BrandHandler.GetStore)
		stores.PUT("/:id", h.BrandHandler.UpdateStore)
		stores.DELETE("/:id", h.BrandHandler.DeleteStore)

		// Review sync and history per store
		stores.POST("/:id/reviews/sync", h.ReviewHandler.SyncReviews)
		stores.GET("/:id/reviews", h.ReviewHandler.ListReviews)
		stores.POST("/:id/reviews", h.ReviewHandler.RecordReview)
	}

	// ==================== Campaigns ====================
	campaigns := api.Group("/campaigns")
	campaigns.Use(h.AuthMiddleware.Auth())
	{
		campaigns.POST("", h.CampaignHandler.CreateCampaign)
		campaigns.GET("", h.CampaignHandler.ListCampaigns)
		campaigns.GET("/:id", h.CampaignHandler.GetCampaign)
		campaigns.PUT("/:id", h.CampaignHandler.UpdateCampaign)
		campaigns.DELETE("/:id", h.CampaignHandler.DeleteCampaign)

		// Status management
		campaigns.PUT("/:id/activate", h.CampaignHandler.ActivateCampaign)
		campaigns.PUT("/:id/deactivate", h.CampaignHandler.DeactivateCampaign)

		// Statistics
		campaigns.GET("/:id/stats", h.CampaignHandler.GetStats)

		// Conditions
		campaigns.POST("/:id/conditions", h.CampaignHandler.AddCondition)
		campaigns.DELETE("/:id/conditions/:condition_id", h.CampaignHandler.RemoveCondition)

		// Prizes
		campaigns.POST("/:id/prizes", h.PrizeHandler.CreatePrize)
		campaigns.GET("/:id/prizes", h.PrizeHandler.ListPrizes)

		// Participants
		campaigns.GET("/:id/participants", h.ParticipantHandler.ListParticipants)
		campaigns.DELETE("/:id/participants/:participant_id", h.ParticipantHandler.Anonymize)

		// Live dashboard feed
		campaigns.GET("/:id/ws", h.WSHandler.Subscribe)
	}

	// ==================== Prizes ====================
	prizes := api.Group("/prizes")
	prizes.Use(h.AuthMiddleware.Auth())
	{
		prizes.PUT("/:prize_id", h.PrizeHandler.UpdatePrize)
		prizes.DELETE("/:prize_id", h.PrizeHandler.DeletePrize)
	}

	// ==================== Winners & Claims ====================
	winners := api.Group("/winners")
	winners.Use(h.AuthMiddleware.Auth())
	{
		winners.GET("", h.WinnerHandler.ListWinners)
		winners.POST("/claim", h.WinnerHandler.Claim)
		winners.PUT("/:id/cancel", h.WinnerHandler.Cancel)
		winners.POST("/sweep-expired", h.WinnerHandler.SweepExpired)
	}
}
