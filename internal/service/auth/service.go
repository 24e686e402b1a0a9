// internal/service/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewlottery-service/internal/domain/merchant"
	"reviewlottery-service/internal/domain/shared"
	xerrors "reviewlottery-service/internal/pkg/errors"
	"reviewlottery-service/internal/pkg/jwt"
	"reviewlottery-service/internal/pkg/session"
	"reviewlottery-service/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	merchantRepo repository.MerchantRepository
	jwtManager   *jwt.Manager
	sessions     *session.Manager
	rateLimiter  *session.RateLimiter
	logger       *zap.Logger
}

func NewAuthService(
	merchantRepo repository.MerchantRepository,
	jwtManager *jwt.Manager,
	sessions *session.Manager,
	rateLimiter *session.RateLimiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		merchantRepo: merchantRepo,
		jwtManager:   jwtManager,
		sessions:     sessions,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

// Register creates a new merchant account
func (s *AuthService) Register(ctx context.Context, req *merchant.RegisterRequest) (*merchant.Merchant, error) {
	email, err := shared.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	m := &merchant.Merchant{
		Email:        email.String(),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Status:       merchant.MerchantStatusActive,
	}

	if err := s.merchantRepo.Create(ctx, m); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, fmt.Errorf("email already registered: %w", xerrors.ErrDuplicateEntry)
		}
		s.logger.Error("failed to create merchant", zap.Error(err))
		return nil, err
	}

	s.logger.Info("merchant registered",
		zap.Int64("merchant_id", m.ID),
		zap.String("email", m.Email),
	)

	return m, nil
}

// Login verifies credentials and issues an access token backed by a
// Redis session. Attempts are rate limited per (ip, email).
func (s *AuthService) Login(ctx context.Context, req *merchant.LoginRequest, ip, userAgent string) (*merchant.LoginResponse, error) {
	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		s.logger.Error("rate limiter unavailable", zap.Error(err))
		// Fail open: a Redis outage must not lock merchants out.
		allowed = true
	}
	if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("ip", ip),
			zap.String("email", req.Email),
		)
		return nil, fmt.Errorf("too many login attempts: %w", xerrors.ErrRateLimited)
	}

	m, err := s.merchantRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, err
	}

	if m.Status != merchant.MerchantStatusActive {
		return nil, xerrors.ErrForbidden
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("invalid password attempt",
			zap.Int64("merchant_id", m.ID),
			zap.Int64("attempts_remaining", remaining),
		)
		return nil, xerrors.ErrUnauthorized
	}

	token, jti, err := s.jwtManager.Generator.GenerateAccessToken(m.ID, m.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	sess := &session.SessionData{
		JTI:            jti,
		MerchantID:     m.ID,
		Email:          m.Email,
		IPAddress:      ip,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.jwtManager.Generator.Ttl),
		IsActive:       true,
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.rateLimiter.ResetLoginAttempts(ctx, ip, req.Email)

	if err := s.merchantRepo.UpdateLastLogin(ctx, m.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.Error(err))
	}

	s.logger.Info("merchant logged in", zap.Int64("merchant_id", m.ID))

	return &merchant.LoginResponse{
		AccessToken: token,
		Merchant:    m,
	}, nil
}

// ValidateToken verifies the JWT and checks the backing session is alive
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.GetSession(ctx, claims.MerchantID, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", xerrors.ErrSessionExpired)
	}
	if !sess.IsActive {
		return nil, xerrors.ErrSessionExpired
	}

	return claims, nil
}

// Logout revokes the session behind the presented token
func (s *AuthService) Logout(ctx context.Context, merchantID int64, jti string) error {
	if err := s.sessions.DeleteSession(ctx, merchantID, jti); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("merchant logged out", zap.Int64("merchant_id", merchantID))
	return nil
}

// GetProfile loads the authenticated merchant
func (s *AuthService) GetProfile(ctx context.Context, merchantID int64) (*merchant.Merchant, error) {
	return s.merchantRepo.FindByID(ctx, merchantID)
}
