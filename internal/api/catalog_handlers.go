package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/infrastructure/store"
)

// CatalogHandlers serves the product catalog. Listing and search are public;
// create, update and delete are admin-only and guarded at the router.
type CatalogHandlers struct {
	catalog *catalog.Service
}

func NewCatalogHandlers(catalogSvc *catalog.Service) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalogSvc}
}

// ListCategories returns the fixed catalog sections
func (h *CatalogHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"categories": store.Categories})
}

// ListProducts returns a page of products. Supports ?category=, ?q= for
// fuzzy name search, and ?offset=/?limit= for paging.
func (h *CatalogHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	var (
		page *catalog.Page
		err  error
	)
	if query := q.Get("q"); query != "" {
		page, err = h.catalog.SearchProducts(r.Context(), query, category, offset, limit)
	} else {
		page, err = h.catalog.ListProducts(r.Context(), category, offset, limit)
	}

	if errors.Is(err, store.ErrInvalidCategory) {
		respondJSONError(w, "Unknown category", http.StatusBadRequest)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to list products", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GetProduct returns one product
func (h *CatalogHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if errors.Is(err, store.ErrNotFound) {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondJSONError(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// CreateProduct adds a product to the catalog (admin)
func (h *CatalogHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p store.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.catalog.CreateProduct(r.Context(), &p); err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// UpdateProduct replaces a product's editable fields (admin)
func (h *CatalogHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p store.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = chi.URLParam(r, "productID")

	if err := h.catalog.UpdateProduct(r.Context(), &p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// DeleteProduct removes a product from the catalog (admin)
func (h *CatalogHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
