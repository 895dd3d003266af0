// Package ingress builds the chi router that fronts the dispatch pipeline.
package ingress

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lambdagate/internal/metrics"
)

// New builds the top-level router: every request falls through to the
// dispatch pipeline except /metrics, which Prometheus scrapes directly.
func New(dispatch http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Handle("/*", dispatch)

	return r
}
