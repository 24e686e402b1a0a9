// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// CreateSession stores a new session in Redis, keyed by merchant and JTI
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	key := m.sessionKey(session.MerchantID, session.JTI)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// GetSession retrieves a session from Redis
func (m *Manager) GetSession(ctx context.Context, merchantID int64, jti string) (*SessionData, error) {
	key := m.sessionKey(merchantID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	session.LastActivityAt = time.Now()
	go m.touch(context.Background(), key, &session)

	return &session, nil
}

// DeleteSession removes a single session (logout)
func (m *Manager) DeleteSession(ctx context.Context, merchantID int64, jti string) error {
	return m.client.Del(ctx, m.sessionKey(merchantID, jti)).Err()
}

// DeleteAllSessions removes every session of a merchant
func (m *Manager) DeleteAllSessions(ctx context.Context, merchantID int64) error {
	pattern := fmt.Sprintf("session:%d:*", merchantID)

	iter := m.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}

	return iter.Err()
}

func (m *Manager) touch(ctx context.Context, key string, session *SessionData) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	m.client.Set(ctx, key, data, ttl)
}

func (m *Manager) sessionKey(merchantID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", merchantID, jti)
}
