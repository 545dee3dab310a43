package cache

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is a refresh-token session. Sessions live in the cache layer, not
// the document store: they are TTL-scoped and owned by this process's auth
// flow, unlike the durable shop records.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
}

// SessionStore persists refresh-token sessions.
type SessionStore interface {
	GetSession(ctx context.Context, id string) (*Session, error)
	SetSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
}
