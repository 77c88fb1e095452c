/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/products/*   Product management
  /api/renters/*    Renter management
  /api/rentals/*    Rentals, schedules, summaries
  /api/payments/*   Obligation status toggles
  /api/reports/*    Tenant totals, unpaid total, dashboard

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/renters", func(r chi.Router) {
			r.Get("/", h.ListRenters)
			r.Post("/", h.CreateRenter)
			r.Get("/{id}", h.GetRenter)
			r.Put("/{id}", h.UpdateRenter)
			r.Delete("/{id}", h.DeleteRenter)
		})

		r.Route("/rentals", func(r chi.Router) {
			r.Get("/", h.ListRentals)
			r.Post("/", h.CreateRental)
			r.Get("/{id}", h.GetRental)
			r.Delete("/{id}", h.DeleteRental)
			r.Post("/{id}/return", h.ReturnRental)
			r.Put("/{id}/payment-status", h.UpdateRentalPaymentStatus)
			r.Get("/{id}/payments", h.ListRentalPayments)
			r.Get("/{id}/summary", h.GetRentalSummary)
			r.Get("/{id}/income", h.GetRentalIncome)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/unpaid", h.ListUnpaidPayments)
			r.Put("/{id}/status", h.UpdatePaymentStatus)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/tenants", h.GetTenantTotals)
			r.Get("/unpaid-total", h.GetUnpaidTotal)
			r.Get("/dashboard", h.GetDashboard)
		})
	})

	return r
}
