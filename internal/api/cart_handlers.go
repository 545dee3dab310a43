package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/shopfront/internal/api/middleware"
	"github.com/example/shopfront/internal/cart"
	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/infrastructure/store"
)

// CartHandlers serves the shopping cart. Guests and signed-in users share
// the same routes; the reconciler decides which store backs the request.
type CartHandlers struct {
	carts   *cart.Reconciler
	catalog *catalog.Service
}

func NewCartHandlers(carts *cart.Reconciler, catalogSvc *catalog.Service) *CartHandlers {
	return &CartHandlers{
		carts:   carts,
		catalog: catalogSvc,
	}
}

// AddToCartRequest names a product variant and how many to add.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// GetCart returns the current cart
func (h *CartHandlers) GetCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.carts.CurrentCart(r.Context(), middleware.GetGuestSessionID(r.Context()), getUserID(r))
	if err != nil {
		respondJSONError(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// GetCartSummary returns just the item count and total for the header badge
func (h *CartHandlers) GetCartSummary(w http.ResponseWriter, r *http.Request) {
	state, err := h.carts.CurrentCart(r.Context(), middleware.GetGuestSessionID(r.Context()), getUserID(r))
	if err != nil {
		respondJSONError(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"item_count":  state.ItemCount(),
		"total_price": state.TotalPrice,
	})
}

// AddToCart adds a product variant to the cart. Name, price and image are
// looked up from the catalog so clients cannot set their own prices.
func (h *CartHandlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if errors.Is(err, store.ErrNotFound) {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	item := cart.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  req.Quantity,
		Image:     product.Image,
		Color:     req.Color,
		Size:      req.Size,
	}

	state, err := h.carts.AddItem(r.Context(), middleware.GetGuestSessionID(r.Context()), getUserID(r), item)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidProduct):
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			respondJSONError(w, "Failed to add item", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// RemoveFromCart removes a whole line from the cart. Color and size arrive
// as query parameters since they are part of the line identity.
func (h *CartHandlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	key := cart.Key{
		ProductID: chi.URLParam(r, "productID"),
		Color:     r.URL.Query().Get("color"),
		Size:      r.URL.Query().Get("size"),
	}

	state, err := h.carts.RemoveItem(r.Context(), middleware.GetGuestSessionID(r.Context()), getUserID(r), key)
	if err != nil {
		respondJSONError(w, "Failed to remove item", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// ClearCart empties the cart
func (h *CartHandlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.carts.ClearCart(r.Context(), middleware.GetGuestSessionID(r.Context()), getUserID(r))
	if err != nil {
		respondJSONError(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, state)
}
