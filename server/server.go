// Package server exposes the public registration API and the admin
// dashboard API over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shreshta-sdc/shreshta-server/cache"
	"github.com/shreshta-sdc/shreshta-server/config"
	"github.com/shreshta-sdc/shreshta-server/constants"
	"github.com/shreshta-sdc/shreshta-server/interfaces"
	"github.com/shreshta-sdc/shreshta-server/recon"
	"github.com/shreshta-sdc/shreshta-server/telemetry"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// Server wires handlers to their collaborators and owns the HTTP
// listener.
type Server struct {
	cfg         *config.Config
	storage     interfaces.RegistrationRepository
	screenshots interfaces.ScreenshotStore
	mirror      interfaces.RegistrationMirror // nil when the sheet mirror is disabled
	extractor   interfaces.StatementExtractor
	committer   *recon.Committer
	cache       *cache.DashboardCache
	metrics     *telemetry.MetricsClient
	health      http.Handler

	httpServer *http.Server
}

// Options carries the collaborators the server needs.
type Options struct {
	Config      *config.Config
	Storage     interfaces.RegistrationRepository
	Screenshots interfaces.ScreenshotStore
	Mirror      interfaces.RegistrationMirror
	Extractor   interfaces.StatementExtractor
	Cache       *cache.DashboardCache
	Metrics     *telemetry.MetricsClient
	Health      http.Handler
}

// New builds the server and its router.
func New(opts Options) *Server {
	s := &Server{
		cfg:         opts.Config,
		storage:     opts.Storage,
		screenshots: opts.Screenshots,
		mirror:      opts.Mirror,
		extractor:   opts.Extractor,
		committer:   recon.NewCommitter(opts.Storage),
		cache:       opts.Cache,
		metrics:     opts.Metrics,
		health:      opts.Health,
	}

	s.httpServer = &http.Server{
		Addr:         ":" + opts.Config.Server.Port,
		Handler:      s.Router(),
		ReadTimeout:  constants.HTTPReadTimeout,
		WriteTimeout: constants.HTTPWriteTimeout,
		IdleTimeout:  constants.HTTPIdleTimeout,
	}
	return s
}

// ConcurrencySummary describes the bulk-verify limiter's state in one
// line, suitable for the health endpoint's checks map.
func (s *Server) ConcurrencySummary() string {
	stats := s.committer.ConcurrencyStats()
	return fmt.Sprintf("limit %d (min %d, max %d), avg response %s over %d samples",
		stats.CurrentLimit, stats.MinLimit, stats.MaxLimit,
		stats.AverageResponse.Round(time.Millisecond), stats.WindowSize)
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(corsMiddleware)

	if s.health != nil {
		r.Method(http.MethodGet, "/health", s.health)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleListEvents)
			r.Get("/{eventID}", s.handleGetEvent)
			r.Get("/{eventID}/teams", s.handleListTeams)
			r.Get("/{eventID}/qr", s.handleUPIQR)
			r.Post("/{eventID}/registrations", s.handleRegister)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requirePIN(s.cfg.Admin.PIN))

			r.Get("/stats", s.handleStats)
			r.Get("/registrations", s.handleListRegistrations)
			r.Put("/registrations/{eventID}/{id}", s.handleUpdateRegistration)
			r.Patch("/registrations/{eventID}/{id}/status", s.handleUpdateStatus)
			r.Delete("/registrations/{eventID}/{id}", s.handleDeleteRegistration)

			r.Post("/reconciliation/scan", s.handleReconciliationScan)
			r.Post("/reconciliation/commit", s.handleReconciliationCommit)

			r.Get("/export", s.handleExport)
		})
	})

	return r
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	utils.Info("HTTP server listening on port %s", s.cfg.Server.Port)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
