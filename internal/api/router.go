// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finflow-account/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(accountHandler *handler.AccountHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(middleware.AllowContentType("application/json"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", accountHandler.OpenAccount)
		r.Route("/{accountID}", func(r chi.Router) {
			r.Get("/", accountHandler.GetAccount)
			r.Get("/daily-limit", accountHandler.GetDailyLimit)
			r.Post("/debit", accountHandler.Debit)
			r.Post("/credit", accountHandler.Credit)
		})
	})

	logger.Debug("HTTP routes registered")
	return r
}
