// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/authgrid/authd/internal/auth"
	authpg "github.com/authgrid/authd/internal/auth/postgres"
	"github.com/authgrid/authd/internal/config"
	"github.com/authgrid/authd/internal/httpapi"
	"github.com/authgrid/authd/internal/logging"
	"github.com/authgrid/authd/internal/observability"
	"github.com/authgrid/authd/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the credential service",
		Long: `Start the HTTP API together with the metrics/health listener.
Requires a migrated PostgreSQL database (see "authd migrate up").`,
		RunE: runServe,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("authd", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc, err := auth.NewServiceWithLogger(
		authpg.NewUserRepository(pool),
		authpg.NewTokenRepository(pool),
		auth.NewArgon2idHasher(),
		logger,
	)
	if err != nil {
		return err
	}

	obs := observability.NewServer(cfg.ObservabilityAddr, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})
	obsErrCh, err := obs.Start()
	if err != nil {
		return err
	}

	api, err := httpapi.NewServer(cfg.ListenAddr, svc, obs.Metrics(), logger, cfg.CORSAllowedOrigins)
	if err != nil {
		return err
	}
	apiErrCh, err := api.Start()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-apiErrCh:
	case err = <-obsErrCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if stopErr := api.Stop(shutdownCtx); stopErr != nil && err == nil {
		err = stopErr
	}
	if stopErr := obs.Stop(shutdownCtx); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}
