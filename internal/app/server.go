// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"reviewlottery-service/internal/config"
	"reviewlottery-service/internal/db"
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
	"reviewlottery-service/internal/pkg/jwt"
	"reviewlottery-service/internal/pkg/session"
	"reviewlottery-service/internal/provider"
	"reviewlottery-service/internal/repository/postgres"
	authUsecase "reviewlottery-service/internal/service/auth"
	brandUsecase "reviewlottery-service/internal/service/brand"
	campaignUsecase "reviewlottery-service/internal/service/campaign"
	claimUsecase "reviewlottery-service/internal/service/claim"
	"reviewlottery-service/internal/service/email"
	participantUsecase "reviewlottery-service/internal/service/participant"
	playUsecase "reviewlottery-service/internal/service/play"
	prizeUsecase "reviewlottery-service/internal/service/prize"
	reviewUsecase "reviewlottery-service/internal/service/review"
	"reviewlottery-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if err := db.Migrate(os.Getenv("DATABASE_URL")); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ----- Redis -----
	redisCfg := db.RedisConfig{
		Addresses: []string{s.cfg.RedisAddr},
		Password:  s.cfg.RedisPass,
		DB:        0,
		PoolSize:  10,
	}

	redisClient, err := db.NewRedisClient(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- Review provider -----
	reviewFetcher := provider.NewGooglePlacesClient(s.cfg.GoogleAPIKey, logger)

	// ----- Repositories -----
	merchantRepo := postgres.NewMerchantRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	prizeRepo := postgres.NewPrizeRepository(pool)
	participantRepo := postgres.NewParticipantRepository(pool)
	winnerRepo := postgres.NewWinnerRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// ----- Services -----
	authService := authUsecase.NewAuthService(merchantRepo, jwtManager, sessionManager, rateLimiter, logger)
	brandService := brandUsecase.NewBrandService(brandRepo, storeRepo, logger)
	campaignService := campaignUsecase.NewCampaignService(campaignRepo, prizeRepo, storeRepo, brandRepo, logger)
	prizeService := prizeUsecase.NewPrizeService(prizeRepo, campaignRepo, storeRepo, brandRepo, logger)
	participantService := participantUsecase.NewParticipantService(participantRepo, campaignRepo, reviewRepo, storeRepo, brandRepo, logger)
	playService := playUsecase.NewPlayService(campaignRepo, participantRepo, prizeRepo, winnerRepo, emailSender, hub, logger)
	claimService := claimUsecase.NewClaimService(winnerRepo, campaignRepo, storeRepo, brandRepo, hub, logger)
	reviewService := reviewUsecase.NewReviewService(reviewRepo, storeRepo, brandRepo, reviewFetcher, logger)

	// Expire overdue pending wins in the background. Claim also expires
	// lazily, the sweep keeps dashboards honest for codes nobody presents.
	go s.runExpirySweep(ctx, claimService)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	brandHandlerInst := brandHandler.NewBrandHandler(brandService)
	campaignHandlerInst := campaignHandler.NewCampaignHandler(campaignService)
	prizeHandlerInst := prizeHandler.NewPrizeHandler(prizeService)
	participantHandlerInst := participantHandler.NewParticipantHandler(participantService)
	playHandlerInst := playHandler.NewPlayHandler(playService, participantService, rateLimiter, logger)
	winnerHandlerInst := winnerHandler.NewWinnerHandler(claimService, rateLimiter, logger)
	reviewHandlerInst := reviewHandler.NewReviewHandler(reviewService)
	wsHandlerInst := websocketHandler.NewWebSocketHandler(hub, campaignService, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:        authHandlerInst,
		BrandHandler:       brandHandlerInst,
		CampaignHandler:    campaignHandlerInst,
		PrizeHandler:       prizeHandlerInst,
		ParticipantHandler: participantHandlerInst,
		PlayHandler:        playHandlerInst,
		WinnerHandler:      winnerHandlerInst,
		ReviewHandler:      reviewHandlerInst,
		WSHandler:          wsHandlerInst,
		AuthMiddleware:     authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

func (s *Server) runExpirySweep(ctx context.Context, claimService *claimUsecase.ClaimService) {
	ticker := time.NewTicker(s.cfg.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			count, err := claimService.SweepExpired(sweepCtx, 500)
			cancel()
			if err != nil {
				s.logger.Error("expiry sweep failed", zap.Error(err))
				continue
			}
			if count > 0 {
				s.logger.Info("expired pending wins", zap.Int("count", count))
			}
		}
	}
}
