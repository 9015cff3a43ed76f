// Package httpapi exposes the search service over REST.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/koukeneko/wazai/internal/domain"
	"github.com/koukeneko/wazai/internal/observability"
)

// Searcher is the slice of the coordinator the API needs.
type Searcher interface {
	SearchAll(ctx context.Context, keyword, country, providerFilter string) []domain.MapItem
	ProviderNames() []string
}

// Options configures the HTTP surface.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	AllowOrigins   []string
}

// Server handles HTTP requests for searches, health, and metrics.
type Server struct {
	searcher Searcher
	logger   *slog.Logger
	metrics  *observability.Metrics
	handler  http.Handler
}

// NewServer creates the HTTP server around a searcher.
func NewServer(searcher Searcher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		searcher: searcher,
		logger:   logger,
		metrics:  metrics,
	}

	r := chi.NewRouter()
	r.Use(s.timing)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(newIPRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).middleware)
		r.Get("/api/search", s.handleSearch)
		r.Get("/api/search/providers", s.handleProviders)
	})

	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(r)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := q.Get("keyword")
	country := q.Get("country")
	providerFilter := q.Get("provider")

	items := s.searcher.SearchAll(r.Context(), keyword, country, providerFilter)

	resp := searchResponse{
		Items: make([]itemDTO, 0, len(items)),
		Count: len(items),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toDTO(item))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, providersResponse{Providers: s.searcher.ProviderNames()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady mirrors handleHealth: the service holds no connections that
// could go stale, so being up means being ready.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

// timing logs each request with its duration and status.
func (s *Server) timing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
