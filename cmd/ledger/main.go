package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"ledger/internal/cli"
	applog "ledger/internal/log"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch {
	case cmd == "help" || cmd == "-h" || cmd == "--help":
		printUsage()
		return
	case !isCommand(cmd):
		fmt.Fprintf(os.Stderr, "%v: %s\n\n", errUnknownCommand, cmd)
		printUsage()
		os.Exit(1)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLoggerTo(os.Stderr, os.Getenv("LOG_LEVEL")).With(applog.FieldComponent, applog.ComponentCLI)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	ledger, err := cli.OpenLedger(ctx, logger, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = run(ctx, ledger.Service, cmd, os.Args[2:], os.Stdout)
	if cerr := ledger.Close(); cerr != nil {
		logger.Warn("Failed to close ledger", "error", cerr)
	}

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Personal finance ledger")
	fmt.Println("\nUsage:")
	fmt.Println("  ledger <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  init      Create the ledger store if it does not exist")
	fmt.Println("  add       Append a transaction")
	fmt.Println("  view      Show transactions and a summary for a date range")
	fmt.Println("  series    Print the daily income and expense series as CSV")
	fmt.Println("  export    Write transactions, summary and series to an XLSX file")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'ledger <command> -h' for more information on a command.")
}
