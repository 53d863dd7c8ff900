package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
)

// Server exposes the read-only HTTP API over the report service.
type Server struct {
	router chi.Router
}

// NewServer constructs a chi based HTTP server that forwards requests to the report service.
func NewServer(service domain.ReportService, logger *infra.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(infra.HTTPMiddleware)
	router.Use(correlationMiddleware)

	h := &handler{service: service, logger: logger}
	registerRoutes(router, h)
	router.Method(http.MethodGet, "/metrics", infra.Handler())

	return &Server{router: router}
}

// Router returns the configured chi router for reuse in tests or external HTTP servers.
func (s *Server) Router() http.Handler {
	return s.router
}

// ServeHTTP allows Server to satisfy the http.Handler interface directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

const correlationHeader = "X-Correlation-ID"

func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(correlationHeader); id != "" {
			ctx = infra.WithCorrelationID(ctx, id)
		} else {
			ctx = infra.NewCorrelationID(ctx)
		}
		w.Header().Set(correlationHeader, infra.CorrelationIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
