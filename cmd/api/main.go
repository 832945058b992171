// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Stager HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Load the JWT public key and the entry rule sets.
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/stager/internal/api"
	"github.com/taibuivan/stager/internal/core/dataset"
	"github.com/taibuivan/stager/internal/core/entry"
	"github.com/taibuivan/stager/internal/core/file"
	"github.com/taibuivan/stager/internal/core/group"
	"github.com/taibuivan/stager/internal/core/user"
	"github.com/taibuivan/stager/internal/dataentry"
	"github.com/taibuivan/stager/internal/platform/config"
	"github.com/taibuivan/stager/internal/platform/constants"
	"github.com/taibuivan/stager/internal/platform/metrics"
	"github.com/taibuivan/stager/internal/platform/migration"
	pgstore "github.com/taibuivan/stager/internal/platform/postgres"
	redisstore "github.com/taibuivan/stager/internal/platform/redis"
	"github.com/taibuivan/stager/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Startup deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Token verification & rule sets ─────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, cfg.JWTIssuer)
	must(log, err, "load jwt public key")

	ruleSets := dataentry.BuiltinRuleSets()
	if cfg.RulesPath != "" {
		custom, err := dataentry.LoadRuleSetsFile(cfg.RulesPath)
		must(log, err, "load rule sets")
		ruleSets = ruleSets.Merge(custom)
	}
	log.Info("rule_sets_loaded", slog.Any("names", ruleSets.Names()))

	objects, err := file.NewS3Store(startupCtx, file.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	must(log, err, "configure object store")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	m := metrics.New()

	groupService := group.NewService(group.NewPostgresRepository(pool), log)
	userService := user.NewService(user.NewPostgresRepository(pool), groupService, log)
	datasetService := dataset.NewService(dataset.NewPostgresRepository(pool), groupService, m, log)
	entryService := entry.NewService(entry.NewRedisSessionStore(rdb), datasetService, ruleSets, m, cfg.EntrySessionTTL, log)
	fileService := file.NewService(objects, file.NewPostgresLinkRepository(pool), m, file.Options{
		MaxUploadSize: cfg.MaxUploadSize,
		PresignTTL:    cfg.S3PresignTTL,
	}, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Entry:     entry.NewHandler(entryService),
		Dataset:   dataset.NewHandler(datasetService),
		Group:     group.NewHandler(groupService),
		User:      user.NewHandler(userService),
		File:      file.NewHandler(fileService),
		Accounts:  userService,
		Metrics:   m,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
