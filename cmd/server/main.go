// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/gigmarket/internal/config"
	"github.com/tomtom215/gigmarket/internal/dbopt"
	"github.com/tomtom215/gigmarket/internal/logging"
	"github.com/tomtom215/gigmarket/internal/server"
	"github.com/tomtom215/gigmarket/internal/store"
	"github.com/tomtom215/gigmarket/internal/supervisor"
	"github.com/tomtom215/gigmarket/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential startup steps
func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Bool("redis", cfg.Store.UsesRedis()).
		Bool("database", cfg.Database.URL != "").
		Msg("Starting Gigmarket")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing store")
		}
	}()

	var repo dbopt.Repository
	if cfg.Database.URL != "" {
		db, err := dbopt.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.ConnMaxLifetime)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer func() {
				if err := sqlDB.Close(); err != nil {
					logging.Warn().Err(err).Msg("Error closing database")
				}
			}()
		}
		gormRepo := dbopt.NewGormRepository(db)
		if !cfg.IsProduction() {
			if err := gormRepo.AutoMigrate(ctx); err != nil {
				return err
			}
		}
		repo = gormRepo
	} else {
		logging.Warn().Msg("DATABASE_URL not set, marketplace reads answer 503")
	}

	app, err := server.NewApp(cfg, st, repo)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(httpServer, services.DefaultShutdownTimeout))
	addSweepers(tree, app, st, cfg)

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services")
	case serveErr = <-errCh:
	}
	for err := range errCh {
		if serveErr == nil {
			serveErr = err
		}
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return serveErr
	}
	return nil
}

// addSweepers registers the maintenance services. Redis expires keys on its
// own, so the store sweeper only runs for the in-process store.
func addSweepers(tree *supervisor.SupervisorTree, app *server.App, st store.Store, cfg *config.Config) {
	if mem, ok := st.(*store.MemoryStore); ok {
		tree.AddMaintenanceService(services.NewSweeperService("store-sweeper", cfg.Cache.SweepInterval,
			func(context.Context) (int, error) { return mem.Sweep(), nil }))
	}
	if app.Sessions != nil {
		tree.AddMaintenanceService(services.NewSweeperService("session-sweeper", cfg.Cache.SweepInterval,
			app.Sessions.PurgeExpired))
	}
	if cfg.IsProduction() {
		tree.AddMaintenanceService(services.NewSweeperService("monitor-cleanup", cfg.Security.SweepInterval,
			app.Monitor.Cleanup))
	}
}
