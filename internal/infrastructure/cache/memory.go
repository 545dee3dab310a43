package cache

import (
	"context"
	"sync"
	"time"

	"github.com/example/shopfront/internal/cart"
)

// MemoryGuestCarts is the in-process guest cart store used in development
// and tests.
type MemoryGuestCarts struct {
	mu    sync.RWMutex
	carts map[string]cart.State
}

func NewMemoryGuestCarts() *MemoryGuestCarts {
	return &MemoryGuestCarts{carts: make(map[string]cart.State)}
}

func (s *MemoryGuestCarts) Get(_ context.Context, sessionID string) (cart.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.carts[sessionID]
	if !ok {
		return cart.EmptyState(), nil
	}
	items := make([]cart.LineItem, len(state.Items))
	copy(items, state.Items)
	state.Items = items
	return state, nil
}

func (s *MemoryGuestCarts) Set(_ context.Context, sessionID string, state cart.State) error {
	items := make([]cart.LineItem, len(state.Items))
	copy(items, state.Items)
	state.Items = items

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = state
	return nil
}

func (s *MemoryGuestCarts) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// Has reports whether a persisted cart exists for the session, deleted keys
// included. Used by tests to tell "empty value" apart from "key removed".
func (s *MemoryGuestCarts) Has(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.carts[sessionID]
	return ok
}

// MemorySessions is the in-process session store.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]*Session)}
}

func (s *MemorySessions) GetSession(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *MemorySessions) SetSession(_ context.Context, session *Session) error {
	copied := *session

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &copied
	return nil
}

func (s *MemorySessions) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessions) DeleteUserSessions(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}
