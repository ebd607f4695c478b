package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/fossillogic/jellyfish/internal/catalog"
	"github.com/fossillogic/jellyfish/internal/chain"
	"github.com/fossillogic/jellyfish/internal/mindset"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the jellyfish HTTP API: a chi router over a catalog of managed
// .fish files plus whatever mindset models a host has loaded.
type Server struct {
	cat     *catalog.DB
	metrics *chain.Metrics
	reg     *mindset.Registry
	limiter *ipRateLimiter

	mu     sync.Mutex
	chains map[string]*chain.Chain // path -> loaded chain, lazily populated

	router  chi.Router
	version string
	started time.Time
}

// New creates a Server backed by cat (the catalog index) and reg (the
// loaded mindset registry). version is reported on /api/health.
func New(cat *catalog.DB, reg *mindset.Registry, metrics *chain.Metrics, version string) *Server {
	s := &Server{
		cat:     cat,
		metrics: metrics,
		reg:     reg,
		limiter: newIPRateLimiter(2, 5), // 2 req/s, burst 5, per caller IP
		chains:  make(map[string]*chain.Chain),
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/chains", s.handleListChains)
		r.Get("/chains/{path}/stats", s.handleChainStats)
		r.Get("/chains/{path}/reason", s.handleReason)

		r.Group(func(r chi.Router) {
			r.Use(s.limiter.middleware)
			r.Post("/chains/{path}/learn", s.handleLearn)
		})

		r.Get("/mindset/models", s.handleListModels)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
