// Package cli provides the process bootstrap shared by cmd/ledger,
// cmd/ledger-server and cmd/ledger-worker.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/services"
)

// SetupLogger installs a text logger on stdout at the given level as the
// slog default and returns it.
func SetupLogger(level string) *slog.Logger {
	return SetupLoggerTo(os.Stdout, level)
}

// SetupLoggerTo is SetupLogger writing to w.
func SetupLoggerTo(w io.Writer, level string) *slog.Logger {
	logger := applog.NewText(w, applog.LevelFromString(level), applog.ComponentApp)
	applog.SetDefault(logger)
	return logger.Logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Ledger bundles the service with the resources it owns.
type Ledger struct {
	Service *services.LedgerService
	backend *backend.BackendResult
}

// Close closes the publisher and then the store.
func (l *Ledger) Close() error {
	var errs []error
	if l.Service != nil {
		if err := l.Service.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := l.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger: %v", errs)
	}
	return nil
}

// OpenLedger creates the primary store and, when AMQP is configured, the
// event publisher. A broker that cannot be reached only disables events.
func OpenLedger(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Ledger, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	var publisher services.Publisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			publisher = client
		}
	}

	svc := services.NewLedgerService(result.Store, cfg.Schema(), policy, publisher)
	logger.Info("Ledger ready",
		applog.FieldBackend, cfg.Backend,
		"validation", cfg.Validation,
		"events", publisher != nil)

	return &Ledger{Service: svc, backend: result}, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
