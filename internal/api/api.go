// Package api provides the HTTP REST API server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/api/health"
	"github.com/good-yellow-bee/cyberguard/internal/dashboard"
)

// Config contains HTTP API server configuration.
type Config struct {
	Address           string
	AnalysisRateLimit int           // analysis requests per minute per client IP
	ToolTimeout       time.Duration // upper bound for one analysis request
	StreamHeartbeat   time.Duration // comment interval on threat streams
	StreamMaxDuration time.Duration // max lifetime for threat stream connections
	Verbose           bool
}

// SetDefaults applies default values for missing configuration.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.AnalysisRateLimit == 0 {
		c.AnalysisRateLimit = 30
	}
	if c.ToolTimeout == 0 {
		c.ToolTimeout = 45 * time.Second
	}
	if c.StreamHeartbeat == 0 {
		c.StreamHeartbeat = 15 * time.Second
	}
	if c.StreamMaxDuration == 0 {
		c.StreamMaxDuration = 30 * time.Minute
	}
}

// Server is the HTTP API server.
type Server struct {
	config        *Config
	session       *dashboard.Session
	log           *zap.Logger
	server        *http.Server
	healthHandler *health.Handler
}

// New creates a new API server for a dashboard session.
func New(cfg *Config, session *dashboard.Session, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	cfg.SetDefaults()

	s := &Server{
		config:        cfg,
		session:       session,
		log:           log,
		healthHandler: health.NewHandler(),
	}
	s.healthHandler.RegisterChecker(health.NewRunningChecker("session", session.Running))
	s.healthHandler.RegisterChecker(health.NewRunningChecker("threat_feed", session.Feed.Running))
	s.healthHandler.RegisterChecker(health.NewCatalogChecker(func() int {
		return len(session.Catalog().Threats)
	}))

	s.server = &http.Server{
		Addr:        cfg.Address,
		Handler:     s.setupRouter(),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: threat streams stay open up to StreamMaxDuration.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run starts the HTTP server and blocks until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.log.Info("HTTP API listening", zap.String("address", s.config.Address))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down HTTP API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.config.Address
}

// RegisterHealthChecker adds a health checker to the server.
func (s *Server) RegisterHealthChecker(c health.Checker) {
	if s.healthHandler != nil {
		s.healthHandler.RegisterChecker(c)
	}
}
