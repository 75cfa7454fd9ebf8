package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/cli"
	applog "ledger/internal/log"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).With(applog.FieldComponent, applog.ComponentWorker)

	logger.Info("Starting ledger-worker", applog.FieldOperation, applog.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	factory := backend.NewFactory(logger)

	mirrorConfig, err := backend.MirrorFromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid mirror configuration", "error", err)
		os.Exit(1)
	}
	mirror, err := factory.CreateBackend(ctx, mirrorConfig)
	if err != nil {
		logger.Error("Failed to create mirror store", "error", err, applog.FieldBackend, cfg.MirrorBackend)
		os.Exit(1)
	}
	defer mirror.Close()

	mirrorWorker := worker.NewMirrorWorker(mirror.Store)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	g, gctx := errgroup.WithContext(ctx)

	// A failed backfill stops the worker; the next start copies what is
	// still missing.
	if cfg.MirrorBackfill {
		primaryConfig, err := backend.FromAppConfig(cfg)
		if err != nil {
			logger.Error("Invalid ledger configuration", "error", err)
			os.Exit(1)
		}
		primary, err := factory.CreateBackend(ctx, primaryConfig)
		if err != nil {
			logger.Error("Failed to open ledger store for backfill", "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			defer primary.Close()
			n, err := mirrorWorker.Backfill(gctx, primary.Store)
			if err != nil {
				return fmt.Errorf("backfill mirror after %d records: %w", n, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return amqpClient.ConsumeTransactionAppended(gctx, mirrorWorker.HandleAppended)
	})

	logger.Info("Mirroring appended transactions",
		applog.FieldBackend, cfg.MirrorBackend,
		"queue", cfg.AMQPQueue)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete", applog.FieldOperation, applog.OpShutdown)
}
