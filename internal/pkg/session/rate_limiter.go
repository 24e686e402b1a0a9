// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckLoginAttempt checks if login attempt is allowed
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error) {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, 15*time.Minute)
	}

	maxAttempts := int64(5)
	remaining := maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	// Allow up to 5 attempts per 15 minutes
	return count <= maxAttempts, remaining, nil
}

// ResetLoginAttempts resets the login attempt counter
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
	return r.client.Del(ctx, key).Err()
}

// CheckPlayAttempt limits how often one visitor can hit the play
// endpoint, which keeps claim-code guessing and replayed spins cheap
// to shed before they reach the database.
func (r *RateLimiter) CheckPlayAttempt(ctx context.Context, ip string, campaignID int64) (bool, error) {
	key := fmt.Sprintf("ratelimit:play:%s:%d", ip, campaignID)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment play attempt: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, 1*time.Minute)
	}

	// Allow up to 10 attempts per minute
	return count <= 10, nil
}

// CheckClaimAttempt limits claim-code lookups per IP
func (r *RateLimiter) CheckClaimAttempt(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:claim:%s", ip)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment claim attempt: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, 10*time.Minute)
	}

	// Allow up to 20 lookups per 10 minutes
	return count <= 20, nil
}

// CheckAPIRateLimit checks general API rate limiting
func (r *RateLimiter) CheckAPIRateLimit(ctx context.Context, merchantID int64, endpoint string, maxRequests int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:api:%d:%s", merchantID, endpoint)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment API rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	return count <= maxRequests, nil
}

// RemainingLoginAttempts returns how many login attempts are left
func (r *RateLimiter) RemainingLoginAttempts(ctx context.Context, ip, email string) (int64, error) {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)

	count, err := r.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 5, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get login attempts: %w", err)
	}

	remaining := int64(5) - count
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}
