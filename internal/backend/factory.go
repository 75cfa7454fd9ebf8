package backend

import (
	"context"
	"fmt"
	"log/slog"

	applog "ledger/internal/log"
	"ledger/internal/store/csvfile"
	"ledger/internal/store/memory"
	"ledger/internal/store/sheets"
	"ledger/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger.With(applog.FieldComponent, applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVBackend(config Config) (*BackendResult, error) {
	s := csvfile.New(config.CSVPath, config.Schema)

	f.logger.Info("Initialized CSV backend", "path", config.CSVPath)

	return &BackendResult{Store: s}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	s, err := sqlite.Open(config.SQLiteDBPath, config.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   s,
		Cleanup: s.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	s, err := sheets.New(ctx, sheets.Options{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	}, config.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets store: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"spreadsheet_id", config.GoogleSpreadsheetID,
		"sheet", config.GoogleSheetName)

	return &BackendResult{Store: s}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")
	return &BackendResult{Store: memory.New()}, nil
}
