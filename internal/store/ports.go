// Package store defines the append-only record store and its error kinds.
package store

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/core"
)

// Ports for store backends.
type (
	// Initializer creates the backing resource with only its header when it
	// does not exist. It never truncates an existing store.
	Initializer interface {
		EnsureInitialized(ctx context.Context) error
	}

	// Appender writes a record as the last entry, verbatim.
	Appender interface {
		Append(ctx context.Context, r core.Record) error
	}

	// Reader returns every record in append order with fields in text form.
	Reader interface {
		ReadAll(ctx context.Context) ([]core.Record, error)
	}

	Store interface {
		Initializer
		Appender
		Reader
	}
)

// ErrMissingStore marks a backing resource that has not been created yet.
// Backends recover from it locally; it does not reach callers of ReadAll.
var ErrMissingStore = errors.New("ledger store does not exist")

// FormatError reports a backing resource whose shape does not match the
// schema. There is no automatic repair.
type FormatError struct {
	Source string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ledger store %s is corrupt at line %d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("ledger store %s is corrupt: %s", e.Source, e.Reason)
}

// CheckHeader compares a header row with the schema columns, ignoring
// surrounding whitespace and a leading UTF-8 byte order mark.
func CheckHeader(source string, header []string, schema core.Schema) error {
	want := schema.Header()
	if len(header) != len(want) {
		return &FormatError{Source: source, Line: 1, Reason: fmt.Sprintf("header has %d columns, want %v", len(header), want)}
	}
	for i := range want {
		got := header[i]
		if i == 0 {
			got = trimBOM(got)
		}
		if trimSpace(got) != want[i] {
			return &FormatError{Source: source, Line: 1, Reason: fmt.Sprintf("header %v does not match %v", header, want)}
		}
	}
	return nil
}
