package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"librarian/internal/handlers"
	"librarian/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Searcher     handlers.Searcher
	Syncer       handlers.Syncer
	RunState     storage.RunStateStore
	HealthChecks map[string]handlers.HealthCheck
	IndexHTML    string // Embedded HTML content
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)

	// Add CORS middleware
	r.Use(CORS)

	searchHandler := handlers.NewSearchHandler(deps.Searcher)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodGet, "/search", searchHandler)
		r.Method(http.MethodPost, "/index", handlers.NewIndexHandler(deps.Syncer))
		r.Method(http.MethodGet, "/status", handlers.NewStatusHandler(deps.RunState))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.HealthChecks))
	})

	// Serve HTML page at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
