package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/shopfront/internal/api/middleware"
	"github.com/example/shopfront/internal/auth"
	"github.com/example/shopfront/internal/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *AuthHandlers
	Cart    *CartHandlers
	Catalog *CatalogHandlers
	Orders  *OrderHandlers
	Users   *UserHandlers
}

// NewRouter wires the HTTP surface. Storefront routes take optional auth so
// guests keep a working cart; account and checkout routes require a token;
// admin routes additionally require the admin role.
func NewRouter(h *Handlers, jwtService *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.GuestSession)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuthMiddleware(jwtService))
				r.Post("/logout", h.Auth.Logout)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(jwtService))
				r.Get("/me", h.Auth.Me)
				r.Post("/logout-all", h.Auth.LogoutAll)
			})
		})

		// Catalog (public)
		r.Get("/categories", h.Catalog.ListCategories)
		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/{productID}", h.Catalog.GetProduct)

		// Cart (guest or signed in)
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthMiddleware(jwtService))
			r.Get("/cart", h.Cart.GetCart)
			r.Get("/cart/summary", h.Cart.GetCartSummary)
			r.Post("/cart/items", h.Cart.AddToCart)
			r.Delete("/cart/items/{productID}", h.Cart.RemoveFromCart)
			r.Delete("/cart", h.Cart.ClearCart)
		})

		// Account (signed in)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			r.Post("/orders", h.Orders.PlaceOrder)
			r.Get("/orders", h.Orders.GetOrders)
			r.Get("/orders/{orderID}", h.Orders.GetOrder)
			r.Post("/orders/{orderID}/cancel", h.Orders.CancelOrder)

			r.Patch("/me/profile", h.Users.UpdateProfile)
			r.Put("/me/theme", h.Users.SetTheme)
		})

		// Back office (admin only)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))
			r.Use(middleware.RequireRole(user.RoleAdmin))

			r.Post("/products", h.Catalog.CreateProduct)
			r.Put("/products/{productID}", h.Catalog.UpdateProduct)
			r.Delete("/products/{productID}", h.Catalog.DeleteProduct)

			r.Get("/orders", h.Orders.GetAllOrders)
			r.Get("/stats", h.Orders.GetStats)
		})
	})

	return r
}
