package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// GuestSessionCookie identifies the browser's local cart before and
	// after sign-in.
	GuestSessionCookie = "guest_session"

	guestSessionTTL = 30 * 24 * time.Hour

	guestSessionContextKey contextKey = "guest_session"
)

// GuestSession ensures every request carries a guest session ID, minting a
// cookie on first contact. The ID keys the server-side local cart, so it is
// issued to anonymous and signed-in visitors alike.
func GuestSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if cookie, err := r.Cookie(GuestSessionCookie); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     GuestSessionCookie,
				Value:    sessionID,
				Path:     "/",
				Expires:  time.Now().Add(guestSessionTTL),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), guestSessionContextKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetGuestSessionID returns the guest session ID minted by GuestSession, or
// empty when the middleware did not run.
func GetGuestSessionID(ctx context.Context) string {
	id, _ := ctx.Value(guestSessionContextKey).(string)
	return id
}
