package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"ledger/internal/config"
	"ledger/internal/core"
)

func TestOpenLedger(t *testing.T) {
	cfg := &config.Config{
		Backend:    config.BackendCSV,
		CSVPath:    filepath.Join(t.TempDir(), "finance_data.csv"),
		DateLayout: core.DefaultDateLayout,
		Validation: core.PolicyStrict,
	}

	ledger, err := OpenLedger(context.Background(), slog.Default(), cfg)
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer ledger.Close()

	ctx := context.Background()
	if err := ledger.Service.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := ledger.Service.Add(ctx, core.Record{Date: "01-01-2024", Amount: "-1", Category: "Income"}); err == nil {
		t.Fatal("strict policy should reject negative amounts")
	}
	if err := ledger.Service.Add(ctx, core.Record{Date: "01-01-2024", Amount: "10", Category: "Income"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	res, err := ledger.Service.Transactions(ctx, "01-01-2024", "01-01-2024")
	if err != nil || len(res.Transactions) != 1 {
		t.Fatalf("Transactions = %+v, %v", res, err)
	}
}

func TestOpenLedgerRejectsBadConfig(t *testing.T) {
	cfg := &config.Config{Backend: "nope", Validation: core.PolicyLenient}
	if _, err := OpenLedger(context.Background(), slog.Default(), cfg); err == nil {
		t.Fatal("expected error")
	}
	cfg = &config.Config{Backend: config.BackendMemory, Validation: "paranoid"}
	if _, err := OpenLedger(context.Background(), slog.Default(), cfg); err == nil {
		t.Fatal("expected policy error")
	}
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
	if slog.Default() != logger {
		t.Error("logger should be the slog default")
	}
}
