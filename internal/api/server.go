// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the composition root for the chi router.
  - Only this package and cmd/api import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/stager/internal/core/dataset"
	"github.com/taibuivan/stager/internal/core/entry"
	"github.com/taibuivan/stager/internal/core/file"
	"github.com/taibuivan/stager/internal/core/group"
	"github.com/taibuivan/stager/internal/core/user"
	"github.com/taibuivan/stager/internal/platform/config"
	"github.com/taibuivan/stager/internal/platform/constants"
	"github.com/taibuivan/stager/internal/platform/metrics"
	"github.com/taibuivan/stager/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 503 while a dependency is down.
	Readiness http.HandlerFunc

	// Entry serves the editing sessions of the data entry grid.
	Entry *entry.Handler

	// Dataset serves bulk submission and the dataset and participant reads.
	Dataset *dataset.Handler

	// Group manages permission groups and memberships.
	Group *group.Handler

	// User manages accounts.
	User *user.Handler

	// File handles uploads and presigned downloads.
	File *file.Handler

	// Accounts refuses deactivated callers. Nil disables the check.
	Accounts middleware.AccountChecker

	// Metrics records request latency and serves /metrics.
	Metrics *metrics.Metrics
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware)
	}
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.RateLimit(ctx))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Anonymous probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler())
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.Timeout(constants.GlobalRequestTimeout))
		api.Use(middleware.Authenticate(verifier))
		api.Use(middleware.RequireAuth)
		if h.Accounts != nil {
			api.Use(middleware.RequireActive(h.Accounts))
		}

		api.Mount("/entry", h.Entry.Routes())
		api.Mount("/datasets", h.Dataset.Routes())
		api.Mount("/participants", h.Dataset.ParticipantRoutes())
		api.Mount("/groups", h.Group.Routes())
		api.Mount("/users", h.User.Routes())
		api.Mount("/files", h.File.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
