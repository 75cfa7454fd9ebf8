// Package sheets stores the ledger in one tab of a Google spreadsheet:
// the header in row 1 and one record per following row.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ledger/internal/core"
	"ledger/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Options configures the Sheets backend.
type Options struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Store struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	schema        core.Schema
}

var _ store.Store = (*Store)(nil)

// New creates a Sheets store authenticated with a service account.
// GOOGLE_APPLICATION_CREDENTIALS is used when no credentials are given.
func New(ctx context.Context, opts Options, schema core.Schema) (*Store, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Store{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(opts.SpreadsheetID),
		sheetName:     sheetName,
		schema:        schema,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(opts.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(opts.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// EnsureInitialized adds the tab when missing and writes the header when
// row 1 is empty. Existing rows are never touched.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	if s.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if err := s.ensureTab(ctx); err != nil {
		return err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.headerRange()).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header %s: %w", s.headerRange(), err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	vr := &gsheet.ValueRange{Values: [][]any{toRow(s.schema.Header())}}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.headerRange(), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header %s: %w", s.headerRange(), err)
	}

	slog.InfoContext(ctx, "Ledger sheet initialized", "sheet", s.sheetName)
	return nil
}

func (s *Store) ensureTab(ctx context.Context) error {
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: s.sheetName},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", s.sheetName, err)
	}
	return nil
}

// Append adds r after the last row. Values are written RAW so dates and
// amounts stay text and are not reinterpreted by Sheets.
func (s *Store) Append(ctx context.Context, r core.Record) error {
	if err := s.EnsureInitialized(ctx); err != nil {
		return err
	}

	vr := &gsheet.ValueRange{Values: [][]any{toRow(r.Fields())}}
	resp, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.dataRange(), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", s.sheetName, err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Record appended to sheet",
		"sheet", s.sheetName,
		"ref", ref,
		"date", r.Date,
		"amount", r.Amount,
		"category", r.Category)
	return nil
}

// ReadAll returns every row after the header. A missing tab reads as an
// empty ledger.
func (s *Store) ReadAll(ctx context.Context) ([]core.Record, error) {
	if s.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange()).Context(ctx).Do()
	if isMissingRange(err) {
		slog.DebugContext(ctx, "Ledger sheet missing, reading as empty", "sheet", s.sheetName)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.sheetName, err)
	}
	records, err := recordsFromValues(s.sheetName, resp.Values, s.schema)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Ledger sheet read", "sheet", s.sheetName, "rows", len(records))
	return records, nil
}

func (s *Store) headerRange() string {
	return fmt.Sprintf("%s!A1:%s1", quoteSheet(s.sheetName), lastColumn(len(s.schema.Columns)))
}

func (s *Store) dataRange() string {
	return fmt.Sprintf("%s!A:%s", quoteSheet(s.sheetName), lastColumn(len(s.schema.Columns)))
}
