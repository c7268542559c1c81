// Package httpapi serves the catalog, the project registry and document
// generation over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/config"
	"github.com/alexanderramin/glazingpm/internal/metrics"
	"github.com/alexanderramin/glazingpm/internal/service"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// Deps are the services the API exposes.
type Deps struct {
	Catalog    *catalog.Catalog
	Projects   service.ProjectService
	Generation service.GenerationService
	Metrics    *metrics.Registry
	Logger     *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	router  *mux.Router
	server  *http.Server
	deps    Deps
	logger  *slog.Logger
	limiter *rate.Limiter
	config  config.ServerConfig
}

// NewServer builds the router and the underlying http.Server. Nothing
// listens until Run.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	s := &Server{
		router: mux.NewRouter(),
		deps:   deps,
		logger: logger,
		config: cfg,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.accessLogMiddleware)
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.metricsMiddleware)

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.rateLimitMiddleware)

	api.HandleFunc("/vendors", s.listVendors).Methods(http.MethodGet)
	api.HandleFunc("/cost-codes", s.listCostCodes).Methods(http.MethodGet)
	api.HandleFunc("/scopes", s.listScopes).Methods(http.MethodGet)

	api.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.createProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", s.getProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/generate", s.generate).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/outputs/latest", s.latestOutputs).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/download/{kind}", s.download).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.config.Addr }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http_server_start", "addr", s.config.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("http_server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
