package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DefaultDateLayout is the canonical dd-mm-yyyy format as a Go time layout.
const DefaultDateLayout = "02-01-2006"

// Schema describes the persisted layout shared by every store backend and
// the range filter. Field order is fixed; only the header labels and the
// date layout are carried here so they can be passed in at construction.
type Schema struct {
	Columns    []string
	DateLayout string
}

// DefaultSchema returns the date, amount, category, description layout.
func DefaultSchema() Schema {
	return Schema{
		Columns:    []string{"date", "amount", "category", "description"},
		DateLayout: DefaultDateLayout,
	}
}

// Validate checks that the schema has the four fixed fields and a date layout
// that survives a format/parse round trip.
func (s Schema) Validate() error {
	if len(s.Columns) != 4 {
		return fmt.Errorf("schema must have 4 columns, got %d", len(s.Columns))
	}
	for i, c := range s.Columns {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("schema column %d is empty", i+1)
		}
	}
	if strings.TrimSpace(s.DateLayout) == "" {
		return errors.New("schema date layout is empty")
	}
	probe := civil.Date{Year: 2024, Month: time.December, Day: 31}
	got, err := s.ParseDate(s.FormatDate(probe))
	if err != nil || got != probe {
		return fmt.Errorf("schema date layout %q does not round-trip", s.DateLayout)
	}
	return nil
}

// Header returns a copy of the column labels.
func (s Schema) Header() []string {
	return append([]string(nil), s.Columns...)
}

// ParseDate parses v with the canonical layout.
func (s Schema) ParseDate(v string) (civil.Date, error) {
	t, err := time.Parse(s.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: expected layout %s", ErrInvalidDate, s.DateLayout)
	}
	return civil.DateOf(t), nil
}

// FormatDate renders d with the canonical layout.
func (s Schema) FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format(s.DateLayout)
}

// FieldError reports the field of a Record that could not be parsed. The
// cause names the problem, so the message only adds field and value.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParseRecord converts a stored Record into a Transaction.
// The category is kept verbatim.
func (s Schema) ParseRecord(r Record) (Transaction, error) {
	d, err := s.ParseDate(r.Date)
	if err != nil {
		return Transaction{}, &FieldError{Field: s.Columns[0], Value: r.Date, Err: err}
	}
	amt, err := ParseAmount(r.Amount)
	if err != nil {
		return Transaction{}, &FieldError{Field: s.Columns[1], Value: r.Amount, Err: err}
	}
	return Transaction{
		Date:        d,
		Amount:      amt,
		Category:    Category(r.Category),
		Description: r.Description,
	}, nil
}
