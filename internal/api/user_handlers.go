package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/shopfront/internal/api/middleware"
	"github.com/example/shopfront/internal/infrastructure/store"
	"github.com/example/shopfront/internal/user"
)

type UserHandlers struct {
	users *user.Service
}

func NewUserHandlers(users *user.Service) *UserHandlers {
	return &UserHandlers{users: users}
}

// UpdateProfile edits the caller's profile fields
func (h *UserHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var upd user.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), claims.UserID, upd)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondJSONError(w, "User not found", http.StatusNotFound)
	case errors.Is(err, user.ErrInvalidBirthday):
		respondJSONError(w, "Birthday must be YYYY-MM-DD", http.StatusBadRequest)
	case err != nil:
		respondJSONError(w, "Failed to update profile", http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// SetTheme persists the caller's UI theme preference
func (h *UserHandlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.SetTheme(r.Context(), claims.UserID, req.Theme)
	switch {
	case errors.Is(err, user.ErrInvalidTheme):
		respondJSONError(w, "Theme must be light or dark", http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		respondJSONError(w, "User not found", http.StatusNotFound)
	case err != nil:
		respondJSONError(w, "Failed to update theme", http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, toUserResponse(u))
	}
}
