// Package csvfile stores the ledger as a CSV file with a header row.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/store"
)

// Store is a CSV file holding one record per row after the header.
type Store struct {
	path   string
	schema core.Schema
}

var _ store.Store = (*Store)(nil)

func New(path string, schema core.Schema) *Store {
	return &Store{path: path, schema: schema}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureInitialized creates the file with only the header row when it does
// not exist yet. An existing file is left untouched.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat ledger file: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	// O_EXCL so a file created concurrently is never truncated.
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create ledger file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(s.schema.Header()); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush header: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close ledger file: %w", err)
	}

	slog.InfoContext(ctx, "Ledger file initialized", "path", s.path)
	return nil
}

// Append writes r as the last row. The file is initialized first if missing.
func (s *Store) Append(ctx context.Context, r core.Record) error {
	if err := s.EnsureInitialized(ctx); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger file: %w", err)
	}

	if err := ensureTrailingNewline(f); err != nil {
		f.Close()
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(r.Fields()); err != nil {
		f.Close()
		return fmt.Errorf("write record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close ledger file: %w", err)
	}

	slog.InfoContext(ctx, "Record appended to ledger file",
		"path", s.path,
		"date", r.Date,
		"amount", r.Amount,
		"category", r.Category)
	return nil
}

// ReadAll returns every row after the header in file order.
// A missing file reads as an empty ledger.
func (s *Store) ReadAll(ctx context.Context) ([]core.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.DebugContext(ctx, "Ledger file not found, reading as empty", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	records, err := s.decode(f)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Ledger file read", "path", s.path, "rows", len(records))
	return records, nil
}

func (s *Store) decode(r io.Reader) ([]core.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(s.schema.Columns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &store.FormatError{Source: s.path, Reason: "missing header row"}
		}
		return nil, s.formatError(err)
	}
	if err := store.CheckHeader(s.path, header, s.schema); err != nil {
		return nil, err
	}

	var out []core.Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, s.formatError(err)
		}
		out = append(out, core.RecordFromFields(fields))
	}
	return out, nil
}

func (s *Store) formatError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &store.FormatError{Source: s.path, Line: pe.Line, Reason: pe.Err.Error()}
	}
	return fmt.Errorf("read ledger file: %w", err)
}

// ensureTrailingNewline terminates a last line written without a newline so
// the next row does not merge into it.
func ensureTrailingNewline(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return fmt.Errorf("read ledger file tail: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}
	if _, err := f.Write([]byte("\n")); err != nil {
		return fmt.Errorf("terminate last row: %w", err)
	}
	return nil
}
