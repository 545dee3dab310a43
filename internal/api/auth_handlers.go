package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/shopfront/internal/api/middleware"
	"github.com/example/shopfront/internal/auth"
	"github.com/example/shopfront/internal/infrastructure/cache"
	"github.com/example/shopfront/internal/infrastructure/store"
	"github.com/example/shopfront/internal/user"
)

// hashToken creates a SHA-256 hash of the token for secure storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// AuthHandlers handles authentication-related HTTP requests. Sign-in and
// sign-out go through the notifier so the cart reconciler sees every auth
// state change.
type AuthHandlers struct {
	users    *user.Service
	jwt      *auth.JWTService
	sessions cache.SessionStore
	notifier *auth.Notifier
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(users *user.Service, jwt *auth.JWTService, sessions cache.SessionStore, notifier *auth.Notifier) *AuthHandlers {
	return &AuthHandlers{
		users:    users,
		jwt:      jwt,
		sessions: sessions,
		notifier: notifier,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Birthday string `json:"birthday,omitempty"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message,omitempty"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Birthday  string    `json:"birthday,omitempty"`
	Role      string    `json:"role"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Birthday:  u.Birthday,
		Role:      u.Role,
		Theme:     u.Theme,
		CreatedAt: u.CreatedAt,
	}
}

// Register handles user registration
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	newUser, err := h.users.Register(r.Context(), user.Registration{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Birthday: req.Birthday,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			respondJSONError(w, "Email already registered", http.StatusConflict)
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondJSONError(w, "Password must be at least 8 characters", http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	h.signIn(w, r, newUser)

	respondJSON(w, http.StatusCreated, AuthResponse{
		User:    toUserResponse(newUser),
		Message: "Registration successful",
	})
}

// Login handles user login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		case errors.Is(err, user.ErrAccountDisabled):
			respondJSONError(w, "Account is deactivated", http.StatusForbidden)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.signIn(w, r, u)

	respondJSON(w, http.StatusOK, AuthResponse{
		User:    toUserResponse(u),
		Message: "Login successful",
	})
}

// Logout handles user logout
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		if claims.SessionID != "" {
			_ = h.sessions.DeleteSession(r.Context(), claims.SessionID)
		}
		h.notifier.SignedOut(claims.UserID, middleware.GetGuestSessionID(r.Context()))
	}

	h.clearAuthCookies(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}

// LogoutAll revokes every live session of the current user, signing them out
// on all devices at once.
func (h *AuthHandlers) LogoutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.DeleteUserSessions(r.Context(), claims.UserID); err != nil {
		respondJSONError(w, "Failed to revoke sessions", http.StatusInternalServerError)
		return
	}

	h.notifier.SignedOut(claims.UserID, middleware.GetGuestSessionID(r.Context()))
	h.clearAuthCookies(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out on all devices",
	})
}

// Refresh handles token refresh. The refresh token must match the hashed
// token of a live session; on success the session is rotated.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshCookie, err := r.Cookie("refresh_token")
	if err != nil {
		respondJSONError(w, "No refresh token", http.StatusUnauthorized)
		return
	}

	userID, sessionID, err := h.jwt.ValidateRefreshToken(refreshCookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "Session not found", http.StatusUnauthorized)
		return
	}

	if time.Now().After(session.ExpiresAt) {
		_ = h.sessions.DeleteSession(r.Context(), sessionID)
		h.clearAuthCookies(w)
		respondJSONError(w, "Session expired", http.StatusUnauthorized)
		return
	}

	if hashToken(refreshCookie.Value) != session.RefreshTokenHash {
		h.clearAuthCookies(w)
		respondJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	u, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "User not found", http.StatusUnauthorized)
		return
	}
	if !u.IsActive {
		h.clearAuthCookies(w)
		respondJSONError(w, "Account is deactivated", http.StatusForbidden)
		return
	}

	// Rotate the session
	_ = h.sessions.DeleteSession(r.Context(), sessionID)
	h.setAuthCookies(w, r, u)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Token refreshed",
	})
}

// Me returns the current authenticated user's information
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// Helper methods

// signIn sets the auth cookies and announces the state change. The notifier
// runs its listeners synchronously, so the cart merge has finished by the
// time the response is written.
func (h *AuthHandlers) signIn(w http.ResponseWriter, r *http.Request, u *store.User) {
	h.setAuthCookies(w, r, u)
	h.notifier.SignedIn(u.ID, middleware.GetGuestSessionID(r.Context()))
}

func (h *AuthHandlers) setAuthCookies(w http.ResponseWriter, r *http.Request, u *store.User) {
	sessionID := uuid.New().String()

	accessToken, accessExpiry, _ := h.jwt.GenerateAccessToken(u.ID, u.Email, u.Role, sessionID)
	refreshToken, refreshExpiry, _ := h.jwt.GenerateRefreshToken(u.ID, sessionID)

	// Store session with hashed refresh token
	_ = h.sessions.SetSession(r.Context(), &cache.Session{
		ID:               sessionID,
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refreshToken),
		ExpiresAt:        refreshExpiry,
		CreatedAt:        time.Now(),
		IPAddress:        r.RemoteAddr,
		UserAgent:        r.UserAgent(),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		Expires:  accessExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/api/auth/refresh",
		Expires:  refreshExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		Expires:  refreshExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandlers) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/auth/refresh",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
