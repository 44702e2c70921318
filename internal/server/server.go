// Package server provides the HTTP API for shokugyo.
package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/shokugyo/internal/config"
	"github.com/hyperjump/shokugyo/internal/i18n"
	"github.com/hyperjump/shokugyo/internal/metrics"
	"github.com/hyperjump/shokugyo/internal/search"
	"github.com/hyperjump/shokugyo/internal/storage"
	"github.com/hyperjump/shokugyo/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP server for the shokugyo API. The engine can be swapped while
// serving when the catalog is reloaded.
type Server struct {
	engine     atomic.Pointer[search.Engine]
	store      storage.SnapshotStore
	dictionary i18n.Dictionary
	config     *config.Config
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies. store may be nil when the
// audit log is not persisted.
func NewServer(
	engine *search.Engine,
	store storage.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		store:      store,
		dictionary: i18n.DefaultDictionary(),
		config:     cfg,
		logger:     utils.OrNop(logger),
	}
	s.engine.Store(engine)
	return s
}

// Engine returns the engine currently serving requests.
func (s *Server) Engine() *search.Engine {
	return s.engine.Load()
}

// SwapEngine replaces the serving engine and returns the previous one.
func (s *Server) SwapEngine(engine *search.Engine) *search.Engine {
	return s.engine.Swap(engine)
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/suggest", s.handleSuggest)
	r.Get("/api/v1/occupations/{code}", s.handleGetOccupation)
	r.Get("/api/v1/occupations/{code}/explain", s.handleExplain)
	r.Get("/api/v1/audit", s.handleAuditList)
	r.Get("/api/v1/audit/export", s.handleAuditExport)
	r.Get("/api/v1/audit/summary", s.handleAuditSummary)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/languages", s.handleLanguages)
	r.Get("/api/v1/translations/{lang}", s.handleTranslations)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
