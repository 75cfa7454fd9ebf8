package backend

import (
	"context"

	"ledger/internal/core"
	"ledger/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store instance and optional cleanup function
type BackendResult struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates record stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type   BackendType
	Schema core.Schema

	// CSV specific
	CSVPath string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
