// Package server provides HTTP server management and lifecycle handling for the medibot API.
// It includes server setup, middleware configuration, route management, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giygas/medibot-api/config"
	"github.com/giygas/medibot-api/data"
	"github.com/giygas/medibot-api/handlers"
	"github.com/giygas/medibot-api/health"
	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/logging"
	"github.com/giygas/medibot-api/metrics"
	"github.com/giygas/medibot-api/validation"
)

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	router        chi.Router
	status        *data.StatusContainer
	config        *config.Config
	httpHandler   interfaces.HTTPHandler
	healthChecker interfaces.HealthChecker
	rateLimiter   *RateLimiter
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, status *data.StatusContainer, ext interfaces.Extractor, res interfaces.Resolver) *Server {
	router := chi.NewRouter()
	healthChecker := health.NewHealthChecker(status)

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second, // interaction checks wait on several oracle calls
			IdleTimeout:  60 * time.Second,
		},
		router:        router,
		status:        status,
		config:        cfg,
		healthChecker: healthChecker,
		httpHandler:   handlers.NewHTTPHandler(status, ext, res, validation.NewInputValidator(), healthChecker),
		rateLimiter:   NewRateLimiter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(BlockDirectAccessMiddleware(s.config.Env != config.EnvProduction)) // before RealIP to see the original RemoteAddr
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(requestLogger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(s.rateLimiter.Middleware)
}

// requestLogger is nil until the logging service is initialized
func requestLogger() *slog.Logger {
	if logging.DefaultLoggingService == nil {
		return nil
	}
	return logging.DefaultLoggingService.Logger
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Post("/extract", s.httpHandler.Extract)
	s.router.Post("/check_interactions", s.httpHandler.CheckInteractions)
	s.router.Post("/get_dosage", s.httpHandler.GetDosage)
	s.router.Post("/suggest_alternatives", s.httpHandler.SuggestAlternatives)
	s.router.Post("/get_drug_alternatives_interactions", s.httpHandler.AlternativesAndInteractions)

	s.router.Get("/drugs", s.httpHandler.ListDrugs)
	s.router.Get("/drugs/{name}", s.httpHandler.FindDrug)

	s.router.Get("/health", s.httpHandler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler returns the root handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and blocks until it stops. A graceful shutdown
// is not reported as an error.
func (s *Server) Start() error {
	if s.config.Env == config.EnvDevelopment {
		s.startProfilingServer()
	}

	s.status.SetServerStartTime(time.Now())
	s.rateLimiter.StartCleanup(cleanupInterval)

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")
	s.rateLimiter.Stop()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Warn("Profiling server failed", "error", err)
		}
	}()
}
