package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/plazadigital/tribubot/internal/api"
	"github.com/plazadigital/tribubot/internal/app"
	"github.com/plazadigital/tribubot/internal/config"
	"github.com/plazadigital/tribubot/internal/tribal"
)

// runServe initializes and starts the HTTP API server.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err = cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	addr, err := parseServeAddr(cfg.Addr)
	if err != nil {
		return fmt.Errorf("parsing address: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting HTTP API server", "version", Version)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	srv := api.NewServer(api.Deps{
		Completer:   a.Engine,
		Matcher:     tribal.Default(),
		History:     a.History,
		Pool:        a.DBPool,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	return srv.Run(ctx, addr)
}
