package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/shopfront/internal/cart"
)

const guestCartTTL = 30 * 24 * time.Hour

// RedisGuestCarts stores one serialized cart state per browsing session.
// It is the server-side stand-in for the browser's local cart storage: a
// single blob under a fixed per-session key with get/set/delete semantics.
type RedisGuestCarts struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuestCarts(client *redis.Client) *RedisGuestCarts {
	return &RedisGuestCarts{client: client, ttl: guestCartTTL}
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf("guestcart:%s", sessionID)
}

func (s *RedisGuestCarts) Get(ctx context.Context, sessionID string) (cart.State, error) {
	data, err := s.client.Get(ctx, guestCartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.EmptyState(), nil
	}
	if err != nil {
		return cart.State{}, fmt.Errorf("redis get failed: %w", err)
	}

	var state cart.State
	if err := json.Unmarshal(data, &state); err != nil {
		return cart.State{}, fmt.Errorf("unmarshal guest cart: %w", err)
	}
	return state, nil
}

func (s *RedisGuestCarts) Set(ctx context.Context, sessionID string, state cart.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal guest cart: %w", err)
	}
	if err := s.client.Set(ctx, guestCartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisGuestCarts) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, guestCartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// RedisSessions stores refresh-token sessions with their natural TTL, plus a
// per-user index so logout can drop every session of one user.
type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

type redisSession struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("usersessions:%s", userID)
}

func (s *RedisSessions) GetSession(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &Session{
		ID:               rs.ID,
		UserID:           rs.UserID,
		RefreshTokenHash: rs.RefreshTokenHash,
		ExpiresAt:        rs.ExpiresAt,
		CreatedAt:        rs.CreatedAt,
		IPAddress:        rs.IPAddress,
		UserAgent:        rs.UserAgent,
	}, nil
}

func (s *RedisSessions) SetSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(redisSession{
		ID:               session.ID,
		UserID:           session.UserID,
		RefreshTokenHash: session.RefreshTokenHash,
		ExpiresAt:        session.ExpiresAt,
		CreatedAt:        session.CreatedAt,
		IPAddress:        session.IPAddress,
		UserAgent:        session.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	if err := s.client.SAdd(ctx, userSessionsKey(session.UserID), session.ID).Err(); err != nil {
		return fmt.Errorf("redis index failed: %w", err)
	}
	// Keep the index from outliving its sessions.
	_ = s.client.Expire(ctx, userSessionsKey(session.UserID), ttl).Err()
	return nil
}

func (s *RedisSessions) DeleteSession(ctx context.Context, id string) error {
	session, err := s.GetSession(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	_ = s.client.SRem(ctx, userSessionsKey(session.UserID), id).Err()
	return nil
}

func (s *RedisSessions) DeleteUserSessions(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis index read failed: %w", err)
	}
	for _, id := range ids {
		if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
	}
	if err := s.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis index delete failed: %w", err)
	}
	return nil
}
