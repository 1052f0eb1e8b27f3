package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/cyberguard/internal/api/alerts"
	"github.com/good-yellow-bee/cyberguard/internal/api/auth"
	"github.com/good-yellow-bee/cyberguard/internal/api/middleware"
	"github.com/good-yellow-bee/cyberguard/internal/api/notifications"
	"github.com/good-yellow-bee/cyberguard/internal/api/threats"
	"github.com/good-yellow-bee/cyberguard/internal/api/tools"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	analysisLimiter := middleware.NewRateLimiter(s.config.AnalysisRateLimit)

	// Global middleware
	r.Use(middleware.RequestLogger(s.log.Named("http"), s.config.Verbose))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recoverer(s.log))
	r.Use(middleware.PrometheusMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, ErrMethodNotAllowed)
	})

	r.Route("/api/v1", func(r chi.Router) {
		authHandler := auth.NewHandler(s.log.Named("auth"))
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		alertHandler := alerts.NewHandler(s.session.Alerts, s.log)
		r.Get("/alerts", alertHandler.List)
		r.Delete("/alerts/{id}", alertHandler.Dismiss)

		threatHandler := threats.NewHandler(s.session.Feed, s.session.ThreatTypes, threats.Options{
			Heartbeat:   s.config.StreamHeartbeat,
			MaxDuration: s.config.StreamMaxDuration,
		}, s.log.Named("threats"))
		r.Route("/threats", func(r chi.Router) {
			r.Get("/", threatHandler.List)
			r.Get("/types", threatHandler.Types)
			r.Get("/stream", threatHandler.Stream)
		})

		notificationHandler := notifications.NewHandler(s.session.Notifications, s.session.Bus, s.log)
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Post("/read-all", notificationHandler.ReadAll)
			r.Post("/toggle", notificationHandler.Toggle)
			r.Post("/close", notificationHandler.Close)
			r.Post("/pointer", notificationHandler.Pointer)
		})

		toolHandler := tools.NewHandler(s.session.Scanner, s.config.ToolTimeout, s.log.Named("tools"))
		r.Route("/analysis", func(r chi.Router) {
			r.Get("/status", toolHandler.Status)

			// Analysis calls reach the external model, so they are rate limited.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitByIP(analysisLimiter))
				r.Post("/url", toolHandler.URL)
				r.Post("/password", toolHandler.Password)
				r.Post("/file", toolHandler.File)
				r.Post("/hash", toolHandler.Hash)
				r.Post("/leak", toolHandler.Leak)
			})
		})
		r.Get("/actions", toolHandler.Actions)

		r.Get("/dashboard/charts", s.charts)
	})

	// Health checks (public, no rate limit)
	r.Get("/health", s.healthHandler.Health)
	r.Get("/health/live", s.healthHandler.Live)
	r.Get("/health/ready", s.healthHandler.Ready)

	return r
}

// charts handles GET /api/v1/dashboard/charts.
func (s *Server) charts(w http.ResponseWriter, r *http.Request) {
	OK(w, s.session.Charts())
}
