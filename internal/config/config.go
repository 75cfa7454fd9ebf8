package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"ledger/internal/core"
)

// Backend names.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
	BackendMemory = "memory"
)

var validBackends = []string{BackendCSV, BackendSQLite, BackendSheets, BackendMemory}

var validLogLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	// HTTP Server
	Port string

	// Ledger
	Backend    string
	CSVPath    string
	DateLayout string
	Validation string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	MirrorBackend      string
	MirrorCSVPath      string
	MirrorSQLiteDBPath string
	MirrorBackfill     bool

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		Backend:    strings.ToLower(getEnv("LEDGER_BACKEND", BackendCSV)),
		CSVPath:    getEnv("LEDGER_CSV_PATH", "finance_data.csv"),
		DateLayout: getEnv("LEDGER_DATE_LAYOUT", core.DefaultDateLayout),
		Validation: strings.ToLower(getEnv("LEDGER_VALIDATION", core.PolicyLenient)),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ledger.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Transactions"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transactions_appended"),

		MirrorBackend:      strings.ToLower(getEnv("MIRROR_BACKEND", BackendSheets)),
		MirrorCSVPath:      getEnv("MIRROR_CSV_PATH", "finance_data_mirror.csv"),
		MirrorSQLiteDBPath: getEnv("MIRROR_SQLITE_DB_PATH", "./data/ledger-mirror.db"),
		MirrorBackfill:     getEnvBool("MIRROR_BACKFILL", false),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	return cfg
}

// Schema returns the record schema with the configured date layout.
func (c *Config) Schema() core.Schema {
	s := core.DefaultSchema()
	if c.DateLayout != "" {
		s.DateLayout = c.DateLayout
	}
	return s
}

// Policy returns the validation policy named by LEDGER_VALIDATION.
func (c *Config) Policy() (core.ValidationPolicy, error) {
	return core.PolicyByName(c.Validation)
}

// AMQPEnabled reports whether append events are published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.Backend) {
		errors = append(errors, fmt.Sprintf("invalid ledger backend '%s': must be one of %v", c.Backend, validBackends))
	}
	errors = append(errors, c.backendErrors(c.Backend, c.CSVPath, c.SQLiteDBPath)...)

	if err := c.Schema().Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid date layout '%s': %v", c.DateLayout, err))
	}

	if _, err := c.Policy(); err != nil {
		errors = append(errors, err.Error())
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateMirror checks the settings the mirror worker needs on top of
// Validate.
func (c *Config) ValidateMirror() error {
	var errors []string

	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required by the mirror worker")
	}

	if !slices.Contains(validBackends, c.MirrorBackend) {
		errors = append(errors, fmt.Sprintf("invalid mirror backend '%s': must be one of %v", c.MirrorBackend, validBackends))
	}
	errors = append(errors, c.backendErrors(c.MirrorBackend, c.MirrorCSVPath, c.MirrorSQLiteDBPath)...)

	if c.MirrorBackend == c.Backend {
		same := false
		switch c.Backend {
		case BackendCSV:
			same = c.MirrorCSVPath == c.CSVPath
		case BackendSQLite:
			same = c.MirrorSQLiteDBPath == c.SQLiteDBPath
		case BackendSheets:
			same = true
		}
		if same {
			errors = append(errors, "mirror store must differ from the primary ledger store")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func (c *Config) backendErrors(backend, csvPath, sqlitePath string) []string {
	var errors []string

	switch backend {
	case BackendCSV:
		if strings.TrimSpace(csvPath) == "" {
			errors = append(errors, "CSV path cannot be empty when using csv backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(sqlitePath) == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	return errors
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
