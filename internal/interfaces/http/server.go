// Package http serves the engine over a small JSON API: fair lines,
// decompositions and tracker validation, plus health and metrics.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtline/internal/config"
	"github.com/sawpanic/courtline/internal/snapshot"
)

// Version is stamped at build time.
var Version = "dev"

// Server is the read-only API over the snapshot store and the tracker. The
// store is not goroutine-safe, so all access from request handlers goes
// through storeMu.
type Server struct {
	router  *mux.Router
	server  *http.Server
	cfg     *config.Config
	store   *snapshot.Store
	storeMu sync.Mutex
	metrics *MetricsRegistry
}

func (s *Server) loadSnapshots(ctx context.Context) (*snapshot.Snapshots, error) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.store.Load(ctx)
}

func (s *Server) cacheStaleness(ctx context.Context, now time.Time) []snapshot.CacheAge {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.store.Staleness(ctx, now, s.cfg.Data.StalenessThreshold)
}

// NewServer wires the API over a config and snapshot store.
func NewServer(cfg *config.Config, store *snapshot.Store) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		cfg:     cfg,
		store:   store,
		metrics: NewMetricsRegistry(),
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.HTTP.Bind,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.rateLimitMiddleware(s.cfg.HTTP.RateLimit, s.cfg.HTTP.RateBurst))

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", s.metrics.MetricsHandler()).Methods("GET")

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(jsonContentTypeMiddleware)
	api.HandleFunc("/fairline", s.handleFairLine).Methods("POST")
	api.HandleFunc("/decompose", s.handleDecompose).Methods("POST")
	api.HandleFunc("/validate", s.handleValidate).Methods("POST")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint")
	})
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("bind", s.cfg.HTTP.Bind).Msg("http server starting")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
