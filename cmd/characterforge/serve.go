// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/characterforge/characterforge/internal/auth"
	authpg "github.com/characterforge/characterforge/internal/auth/postgres"
	"github.com/characterforge/characterforge/internal/config"
	"github.com/characterforge/characterforge/internal/game"
	gamepg "github.com/characterforge/characterforge/internal/game/postgres"
	"github.com/characterforge/characterforge/internal/httpapi"
	"github.com/characterforge/characterforge/internal/logging"
	"github.com/characterforge/characterforge/internal/observability"
	"github.com/characterforge/characterforge/internal/store"
)

// NewServeCmd creates the serve subcommand with all flags configured.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the CharacterForge API server. Pending database migrations
are applied on startup before the server begins accepting requests.`,
		RunE: runServe,
	}

	cmd.Flags().String("http-addr", config.DefaultHTTPAddr, "API listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().String("token-secret", "", "HMAC secret for signing access tokens")
	cmd.Flags().Duration("token-ttl", config.DefaultTokenTTL, "access token lifetime")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("characterforge", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger.Info("starting api server",
		"http_addr", cfg.HTTPAddr,
		"metrics_addr", cfg.MetricsAddr,
		"log_format", cfg.LogFormat,
	)

	pool, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "init migrator").Wrap(err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("error closing migrator", "error", err)
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(cfg.TokenSecret),
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return err
	}

	users := authpg.NewUserRepository(pool)
	authSvc, err := auth.NewServiceWithLogger(users, auth.NewArgon2idHasher(), tokens, logger)
	if err != nil {
		return err
	}
	resolver, err := auth.NewResolver(tokens, users)
	if err != nil {
		return err
	}

	characters, err := game.NewCharacterServiceWithLogger(
		gamepg.NewCharacterRepository(pool),
		gamepg.NewClassRepository(pool),
		gamepg.NewSpeciesRepository(pool),
		logger,
	)
	if err != nil {
		return err
	}

	// Start observability server if configured
	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()
		if _, err := obsServer.Start(); err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	apiServer, err := httpapi.NewServer(cfg.HTTPAddr, authSvc, resolver, characters, metrics, logger)
	if err != nil {
		return err
	}

	apiErrCh, err := apiServer.Start()
	if err != nil {
		return oops.Code("API_START_FAILED").Wrap(err)
	}

	logger.Info("api server ready", "addr", apiServer.Addr())

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-apiErrCh:
		if err != nil {
			logger.Error("api server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
