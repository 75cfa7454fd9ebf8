package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"ledger/internal/core"
	"ledger/internal/query"
	"ledger/internal/report"
	"ledger/internal/resample"
)

var errUnknownCommand = errors.New("unknown command")

var commands = []string{"init", "add", "view", "series", "export"}

func isCommand(name string) bool {
	for _, c := range commands {
		if c == name {
			return true
		}
	}
	return false
}

// ledgerService is what the commands need from services.LedgerService.
type ledgerService interface {
	Schema() core.Schema
	Today() string
	Init(ctx context.Context) error
	Add(ctx context.Context, r core.Record) error
	Transactions(ctx context.Context, start, end string) (query.Result, error)
	DailySeries(ctx context.Context, start, end string) (query.Result, resample.Series, error)
}

func run(ctx context.Context, svc ledgerService, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "init":
		return runInit(ctx, svc, args, out)
	case "add":
		return runAdd(ctx, svc, args, out)
	case "view":
		return runView(ctx, svc, args, out)
	case "series":
		return runSeries(ctx, svc, args, out)
	case "export":
		return runExport(ctx, svc, args, out)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

func runInit(ctx context.Context, svc ledgerService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := svc.Init(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Ledger initialized.")
	return nil
}

func runAdd(ctx context.Context, svc ledgerService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	date := fs.String("date", "", "transaction date (default today)")
	amount := fs.String("amount", "", "transaction amount, e.g. 12.50")
	category := fs.String("category", "", "Income (I) or Expense (E)")
	description := fs.String("description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*amount) == "" {
		return errors.New("-amount is required")
	}
	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return fmt.Errorf("invalid -amount %q: %w", *amount, err)
	}
	cat := parseCategoryFlag(*category)
	if cat == "" {
		return errors.New("-category is required")
	}

	schema := svc.Schema()
	d := strings.TrimSpace(*date)
	if d == "" {
		d = svc.Today()
	}
	day, err := schema.ParseDate(d)
	if err != nil {
		return fmt.Errorf("invalid -date %q: %w", d, err)
	}

	rec := core.Record{
		Date:        schema.FormatDate(day),
		Amount:      amt.String(),
		Category:    string(cat),
		Description: strings.TrimSpace(*description),
	}
	if err := svc.Add(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintln(out, "Entry added successfully")
	return nil
}

// parseCategoryFlag accepts the full category name in any case, or the
// single-letter shortcuts I and E.
func parseCategoryFlag(s string) core.Category {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "I":
		return core.Income
	case "E":
		return core.Expense
	}
	return core.ParseCategory(s)
}

type rangeFlags struct {
	start *string
	end   *string
}

func addRangeFlags(fs *flag.FlagSet) rangeFlags {
	return rangeFlags{
		start: fs.String("start", "", "first date of the range, inclusive"),
		end:   fs.String("end", "", "last date of the range, inclusive"),
	}
}

func (r rangeFlags) validate() error {
	if *r.start == "" || *r.end == "" {
		return errors.New("-start and -end are required")
	}
	return nil
}

func runView(ctx context.Context, svc ledgerService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	rf := addRangeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := rf.validate(); err != nil {
		return err
	}

	res, err := svc.Transactions(ctx, *rf.start, *rf.end)
	if err != nil {
		return err
	}
	return report.WriteView(out, svc.Schema(), res)
}

func runSeries(ctx context.Context, svc ledgerService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("series", flag.ContinueOnError)
	rf := addRangeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := rf.validate(); err != nil {
		return err
	}

	_, series, err := svc.DailySeries(ctx, *rf.start, *rf.end)
	if err != nil {
		return err
	}
	return report.WriteSeriesCSV(out, svc.Schema(), series)
}

func runExport(ctx context.Context, svc ledgerService, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	rf := addRangeFlags(fs)
	path := fs.String("out", "ledger.xlsx", "output workbook path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := rf.validate(); err != nil {
		return err
	}

	res, series, err := svc.DailySeries(ctx, *rf.start, *rf.end)
	if err != nil {
		return err
	}

	f, err := os.Create(*path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := report.WriteXLSX(f, svc.Schema(), res, series); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}

	fmt.Fprintf(out, "Exported %d transactions to %s\n", len(res.Transactions), *path)
	return nil
}
