// Package api wires the HTTP surface of the service.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quantfold/helix/internal/api/handler"
	"github.com/quantfold/helix/internal/api/job"
	"github.com/quantfold/helix/internal/api/middleware"
	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/metrics"
	"github.com/quantfold/helix/internal/sandbox"
	"github.com/quantfold/helix/internal/storage/archive"
	"github.com/quantfold/helix/internal/strategy"
	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	JobTTL      time.Duration
	MaxJobs     int
	MetricsPath string
	Defaults    backtest.Config
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// NewServer creates the HTTP server and wires all routes. The archiver
// may be nil when archiving is disabled.
func NewServer(
	cfg Config,
	strategies *strategy.Engine,
	executor *sandbox.Executor,
	archiver *archive.Archiver,
	registry *metrics.Registry,
	logger *zap.Logger,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	jobStore := job.NewStore(cfg.MaxJobs, cfg.JobTTL)

	backtestHandler := handler.NewBacktestHandler(jobStore, strategies, cfg.Defaults, archiver, registry, logger)
	customHandler := handler.NewCustomHandler(executor, cfg.Defaults, registry, logger)
	compareHandler := handler.NewCompareHandler(strategies, cfg.Defaults, registry, logger)
	strategiesHandler := handler.NewStrategiesHandler(strategies)

	auth := middleware.APIKeyAuth(cfg.APIKey)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux.Handle("POST /api/backtest", protected(backtestHandler.Create))
	mux.Handle("GET /api/backtest/{id}", protected(func(w http.ResponseWriter, r *http.Request) {
		backtestHandler.GetStatus(w, r, r.PathValue("id"))
	}))
	mux.Handle("POST /api/backtest/custom", protected(customHandler.Run))
	mux.Handle("POST /api/compare", protected(compareHandler.Run))
	mux.Handle("GET /api/strategies", protected(strategiesHandler.List))
	mux.HandleFunc("GET /api/health", s.handleHealth)

	if registry != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		// Re-wrap the whole mux so every route is measured.
		s.httpServer.Handler = metrics.HTTPMiddleware(registry)(mux)
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
