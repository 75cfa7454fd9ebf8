package query

import (
	"fmt"

	"ledger/internal/core"
)

// ParseError reports a stored record whose date or amount cannot be parsed.
// Row is the 1-based position of the record in append order.
type ParseError struct {
	Row    int
	Field  string
	Value  string
	Record core.Record
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record %d %v: %s %q: %v", e.Row, e.Record.Fields(), e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// BoundError reports a start or end bound that is not in the canonical format.
type BoundError struct {
	Name  string
	Value string
	Err   error
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Name, e.Value, e.Err)
}

func (e *BoundError) Unwrap() error {
	return e.Err
}
