package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/cart"
)

func TestMemoryGuestCarts_RoundTrip(t *testing.T) {
	carts := NewMemoryGuestCarts()
	ctx := context.Background()

	state := cart.State{
		Items:      []cart.LineItem{{ProductID: "p1", UnitPrice: 100, Quantity: 2}},
		TotalPrice: 200,
	}
	require.NoError(t, carts.Set(ctx, "sess-1", state))

	got, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, state, got)

	// The returned slice is a copy; mutating it must not change the store
	got.Items[0].Quantity = 99
	again, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestMemoryGuestCarts_DeleteRemovesKey(t *testing.T) {
	carts := NewMemoryGuestCarts()
	ctx := context.Background()

	require.NoError(t, carts.Set(ctx, "sess-1", cart.EmptyState()))
	assert.True(t, carts.Has("sess-1"))

	require.NoError(t, carts.Delete(ctx, "sess-1"))
	assert.False(t, carts.Has("sess-1"))

	got, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestMemorySessions_RoundTrip(t *testing.T) {
	sessions := NewMemorySessions()
	ctx := context.Background()

	session := testSession("sess-1", "user-1")
	require.NoError(t, sessions.SetSession(ctx, session))

	got, err := sessions.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
}

func TestMemorySessions_ExpiredIsNotFound(t *testing.T) {
	sessions := NewMemorySessions()
	ctx := context.Background()

	session := testSession("sess-1", "user-1")
	session.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, sessions.SetSession(ctx, session))

	_, err := sessions.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessions_DeleteUserSessions(t *testing.T) {
	sessions := NewMemorySessions()
	ctx := context.Background()

	require.NoError(t, sessions.SetSession(ctx, testSession("sess-1", "user-1")))
	require.NoError(t, sessions.SetSession(ctx, testSession("sess-2", "user-2")))

	require.NoError(t, sessions.DeleteUserSessions(ctx, "user-1"))

	_, err := sessions.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = sessions.GetSession(ctx, "sess-2")
	assert.NoError(t, err)
}
