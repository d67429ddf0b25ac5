// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fortinat-shop/internal/api/handler"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Account *handler.AccountHandler
	Ledger  *handler.LedgerHandler
	Catalog *handler.CatalogHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Bound every request

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		// Accounts
		r.Post("/register", h.Account.Register)
		r.Post("/login", h.Account.Login)
		r.Get("/user/{email}", h.Account.GetUserByEmail)
		r.Get("/users", h.Account.ListUsers)

		// Ledger
		r.Post("/buy", h.Ledger.Buy)
		r.Post("/refund", h.Ledger.Refund)
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/history", h.Ledger.GetTransactionHistory)
			r.Get("/audit", h.Ledger.Audit)
			r.Get("/items", h.Catalog.OwnedItems)
		})

		// Catalog
		r.Route("/cosmetics", func(r chi.Router) {
			r.Get("/", h.Catalog.ListCosmetics)
			r.Get("/options", h.Catalog.Options)
			r.Get("/{id}", h.Catalog.GetCosmetic)
		})
	})

	logger.Debug("HTTP routes registered")
	return r
}
