package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestSession_MintsCookieOnFirstVisit(t *testing.T) {
	var captured string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetGuestSessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	GuestSession(handler).ServeHTTP(rec, req)

	require.NotEmpty(t, captured)

	cookies := rec.Result().Cookies()
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == GuestSessionCookie {
			found = c
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, captured, found.Value)
	assert.True(t, found.HttpOnly)
}

func TestGuestSession_ReusesExistingCookie(t *testing.T) {
	var captured string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetGuestSessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: GuestSessionCookie, Value: "existing-session"})
	rec := httptest.NewRecorder()

	GuestSession(handler).ServeHTTP(rec, req)

	assert.Equal(t, "existing-session", captured)

	// No new cookie is set when one already exists
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, GuestSessionCookie, c.Name)
	}
}

func TestGetGuestSessionID_NoMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetGuestSessionID(req.Context()))
}
