package backend

import (
	"fmt"

	"ledger/internal/config"
)

// FromAppConfig returns the configuration of the primary ledger store.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	return fromAppConfig(appConfig, appConfig.Backend, appConfig.CSVPath, appConfig.SQLiteDBPath)
}

// MirrorFromAppConfig returns the configuration of the worker's mirror store.
func MirrorFromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	return fromAppConfig(appConfig, appConfig.MirrorBackend, appConfig.MirrorCSVPath, appConfig.MirrorSQLiteDBPath)
}

func fromAppConfig(appConfig *config.Config, backend, csvPath, sqlitePath string) (Config, error) {
	backendType := BackendType(backend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", backend)
	}

	return Config{
		Type:   backendType,
		Schema: appConfig.Schema(),

		CSVPath:      csvPath,
		SQLiteDBPath: sqlitePath,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if err := c.Schema.Validate(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	switch c.Type {
	case CSVBackend:
		if c.CSVPath == "" {
			return fmt.Errorf("CSV path is required for csv backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend}
}
