package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/shopfront/internal/api/middleware"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// isAdmin checks if the current user has admin role
func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == "admin"
}

// getUserID extracts the authenticated user ID, empty for guests
func getUserID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}
