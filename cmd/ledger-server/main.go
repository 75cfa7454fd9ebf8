package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"ledger/internal/cli"
	apphttp "ledger/internal/http"
	applog "ledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	ledger, err := cli.OpenLedger(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open ledger", "error", err, applog.FieldBackend, cfg.Backend)
		os.Exit(1)
	}
	defer ledger.Close()

	if err := ledger.Service.Init(ctx); err != nil {
		logger.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}

	httpLogger := applog.New(applog.Config{Handler: logger.Handler(), Component: applog.ComponentHTTP})
	srv := apphttp.NewServer(":"+cfg.Port, ledger.Service, httpLogger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting ledger server", "port", cfg.Port, applog.FieldBackend, cfg.Backend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
