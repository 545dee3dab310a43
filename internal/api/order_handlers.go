package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/shopfront/internal/api/middleware"
	"github.com/example/shopfront/internal/infrastructure/store"
	"github.com/example/shopfront/internal/order"
)

type OrderHandlers struct {
	orders *order.Service
}

func NewOrderHandlers(orders *order.Service) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// OrderResponse wraps an order with an optional warning for partial
// checkout outcomes.
type OrderResponse struct {
	Order   *store.Order `json:"order"`
	Warning string       `json:"warning,omitempty"`
}

// PlaceOrder checks out the current cart
func (h *OrderHandlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var details order.CheckoutDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sessionID := middleware.GetGuestSessionID(r.Context())
	o, err := h.orders.PlaceOrder(r.Context(), sessionID, getUserID(r), details)

	// The order exists even when the cart could not be cleared; report
	// success with a warning rather than losing the order.
	if errors.Is(err, order.ErrCartNotCleared) {
		respondJSON(w, http.StatusCreated, OrderResponse{
			Order:   o,
			Warning: "Order placed but the cart could not be cleared",
		})
		return
	}
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			respondJSONError(w, "Cart is empty", http.StatusBadRequest)
			return
		}
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, OrderResponse{Order: o})
}

// GetOrders lists the caller's orders, newest first
func (h *OrderHandlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), getUserID(r))
	if err != nil {
		respondJSONError(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order, owners and admins only
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), getUserID(r), chi.URLParam(r, "orderID"), isAdmin(r))
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondJSONError(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrNotOwner):
		respondJSONError(w, "Forbidden", http.StatusForbidden)
	case err != nil:
		respondJSONError(w, "Failed to load order", http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, o)
	}
}

// CancelOrder cancels an order, owners and admins only
func (h *OrderHandlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.CancelOrder(r.Context(), getUserID(r), chi.URLParam(r, "orderID"), isAdmin(r))
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondJSONError(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrNotOwner):
		respondJSONError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, order.ErrAlreadyCancelled):
		respondJSONError(w, "Order is already cancelled", http.StatusConflict)
	case err != nil:
		respondJSONError(w, "Failed to cancel order", http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, o)
	}
}

// Admin handlers

// GetAllOrders lists every order newest first (admin). Supports ?email= to
// filter by customer and ?offset=/?limit= for paging.
func (h *OrderHandlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	page, err := h.orders.ListAllOrders(r.Context(), q.Get("email"), offset, limit)
	if err != nil {
		respondJSONError(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetStats returns the back-office dashboard summary (admin)
func (h *OrderHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.GetStats(r.Context())
	if err != nil {
		respondJSONError(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
