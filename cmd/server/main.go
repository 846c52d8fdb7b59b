// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tomtom215/cadence/internal/accounts"
	"github.com/tomtom215/cadence/internal/api"
	"github.com/tomtom215/cadence/internal/auth"
	"github.com/tomtom215/cadence/internal/authz"
	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/database"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/pages"
	"github.com/tomtom215/cadence/internal/source"
	"github.com/tomtom215/cadence/internal/supervisor"
	"github.com/tomtom215/cadence/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("data_dir", cfg.Data.Dir).
		Str("session_store", cfg.Session.Store).
		Msg("Starting Cadence")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Server stopped")
}

// run wires every component and blocks until a shutdown signal arrives.
// Deferred closes run before main returns, which logging.Fatal would skip.
//
//nolint:gocyclo // sequential setup
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	loader := source.NewLoader(db, cfg.Data.Dir, cfg.Data.CacheEnabled)
	if missing := loader.Missing(); len(missing) > 0 {
		logging.Warn().Strs("tables", missing).Str("data_dir", cfg.Data.Dir).Msg("Source tables missing; pages needing them will fail")
	}

	usersPath := cfg.Data.UsersFile
	if !filepath.IsAbs(usersPath) {
		usersPath = filepath.Join(cfg.Data.Dir, usersPath)
	}
	users, err := accounts.Open(ctx, db, usersPath, accounts.Options{
		BcryptCost: cfg.Security.BcryptCost,
		// An account save clears the table cache; the next render rereads every file.
		OnWrite: func() { loader.ClearCache() },
	})
	if err != nil {
		return err
	}
	logging.Info().Int("accounts", users.Len()).Str("path", usersPath).Msg("Accounts loaded")

	sessions, err := auth.NewSessionStore(&cfg.Session)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return err
	}
	authenticator := auth.NewAuthenticator(sessions, jwtManager, &cfg.Session, cfg.Security.CookieSecure, api.WriteError)

	enforcer, err := authz.NewEnforcer(&cfg.Security)
	if err != nil {
		return err
	}

	registry := pages.NewRegistry(pages.Deps{
		Tables:   loader,
		Users:    users,
		Analysis: cfg.Analysis,
	})

	handler := api.NewHandler(api.HandlerDeps{
		DB:            db,
		Users:         users,
		Tables:        loader,
		Pages:         registry,
		Auth:          authenticator,
		Limiter:       auth.NewLoginLimiter(cfg.Security.LoginBurst, cfg.Security.LoginRefill),
		AdminUsername: cfg.Security.AdminUsername,
		Version:       version,
	})
	router := api.NewRouter(handler, authenticator, enforcer, cfg.Security)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddMaintenanceService(services.NewSessionCleanupService(sessions, 0))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	err = tree.Serve(ctx)
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
