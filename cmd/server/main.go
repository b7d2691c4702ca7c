// Package main is the entry point for the namesmith HTTP server.
// In Go, the `main` package with a `main()` function is what gets executed.
// Go compiles to a single static binary, with no runtime to install.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/namesmith/internal/app"
	"github.com/fleveque/namesmith/internal/config"
	"github.com/fleveque/namesmith/internal/server"
	"github.com/fleveque/namesmith/internal/ui"
)

func main() {
	// os.Exit ensures the process exits with a non-zero code on failure.
	// We call run() separately so deferred cleanup functions execute properly
	// (deferred functions don't run when os.Exit is called directly).
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	configPath := os.Getenv("NAMESMITH_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// A missing API key is fatal here, before the server ever listens.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Set up structured logging with zap.
	// zap is a high-performance structured logger: it outputs JSON in production
	// and human-readable format in development.
	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync flushes buffered log entries. We intentionally ignore the error here
	// because Sync commonly fails on stdout/stderr (not a real problem).
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	studio := ui.NewStudio(a.Orchestrator, ui.NewSessionStore(cfg.UI.SessionTTL), cfg.Batch.Timeout, logger)

	srv, err := server.New(cfg, server.Deps{
		Studio:   studio,
		Runner:   a.Orchestrator,
		CallRepo: a.Calls,
		Gatherer: a.Registry,
	}, logger)
	if err != nil {
		return err
	}

	// Graceful shutdown: listen for SIGINT (Ctrl+C) or SIGTERM (docker stop).
	// Channels are Go's primary concurrency primitive: goroutines communicate
	// through channels instead of sharing memory.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine (lightweight thread managed by Go runtime).
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or the server errors out.
	// select is like a switch for channels: it waits until one is ready.
	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// Background studio batches are abandoned if they outlive the grace period;
	// their results only ever lived in memory.
	if err := studio.Wait(shutdownCtx); err != nil {
		logger.Warn("abandoning running batches", zap.Error(err))
	}
	return nil
}
