// Package sqlite stores the ledger in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"ledger/internal/core"
	"ledger/internal/store"

	_ "modernc.org/sqlite"
)

const tableName = "transactions"

// Store keeps append order with an internal sequence column that is never
// returned to callers.
type Store struct {
	db     *sql.DB
	dbPath string
	schema core.Schema

	migrated atomic.Bool
}

var _ store.Store = (*Store)(nil)

func Open(dbPath string, schema core.Schema) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, dbPath: dbPath, schema: schema}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// EnsureInitialized creates the transactions table when absent.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	if s.migrated.Load() {
		return nil
	}
	if err := RunMigrations(s.dbPath); err != nil {
		return err
	}
	s.migrated.Store(true)
	slog.DebugContext(ctx, "SQLite ledger initialized", "path", s.dbPath)
	return nil
}

// Append inserts r as the last row.
func (s *Store) Append(ctx context.Context, r core.Record) error {
	if err := s.EnsureInitialized(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount, category, description) VALUES (?, ?, ?, ?)`,
		r.Date, r.Amount, r.Category, r.Description)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	seq, _ := res.LastInsertId()
	slog.InfoContext(ctx, "Record saved to SQLite",
		"seq", seq,
		"date", r.Date,
		"amount", r.Amount,
		"category", r.Category)
	return nil
}

// ReadAll returns every row in insertion order. A missing table reads as an
// empty ledger; a table whose columns differ from the schema is a FormatError.
func (s *Store) ReadAll(ctx context.Context) ([]core.Record, error) {
	cols, err := s.columns(ctx)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		slog.DebugContext(ctx, "SQLite ledger table not found, reading as empty", "path", s.dbPath)
		return nil, nil
	}
	if err := store.CheckHeader(s.source(), cols, s.schema); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, amount, category, description FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var r core.Record
		if err := rows.Scan(&r.Date, &r.Amount, &r.Category, &r.Description); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	slog.DebugContext(ctx, "SQLite ledger read", "path", s.dbPath, "rows", len(out))
	return out, nil
}

// columns lists the data columns of the transactions table, without seq.
func (s *Store) columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, tableName)
	if err != nil {
		return nil, fmt.Errorf("inspect table: %w", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		if name == "seq" {
			continue
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	return cols, nil
}

func (s *Store) source() string {
	return s.dbPath + "#" + tableName
}
