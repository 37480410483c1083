package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/expense-tracker/internal/identity"
	"github.com/pkordes/expense-tracker/internal/middleware"
)

// RouterConfig carries the HTTP-level settings NewRouter needs.
type RouterConfig struct {
	CORSOrigins  []string
	MaxBodyBytes int64
	Identity     *identity.Resolver
}

// NewRouter builds the full HTTP handler: middleware chain, public routes and
// the identity-protected /api/expenses group.
//
// Middleware order: RequestID, RealIP, request logging, Recoverer, CORS, body
// limit. The logger sits outside Recoverer so a recovered panic is still
// logged with its 500 status.
func NewRouter(s *Server, cfg RouterConfig, log *slog.Logger) http.Handler {
	if cfg.Identity == nil {
		panic("handler.NewRouter: identity resolver is required")
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins, cfg.Identity.Header()))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api/expenses", func(r chi.Router) {
		r.Use(cfg.Identity.Middleware)

		r.Get("/", s.ListExpenses)
		r.Post("/", s.CreateExpense)
		r.Get("/analytics", s.GetAnalytics)
		r.Get("/export", s.ExportExpenses)
		r.Get("/{id}", s.GetExpense)
		r.Put("/{id}", s.UpdateExpense)
		r.Patch("/{id}", s.UpdateExpense)
		r.Delete("/{id}", s.DeleteExpense)
	})

	return r
}
