package core

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestSchemaParseAndFormatDate(t *testing.T) {
	s := DefaultSchema()
	d, err := s.ParseDate("15-01-2024")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := civil.Date{Year: 2024, Month: time.January, Day: 15}
	if d != want {
		t.Fatalf("expected %v, got %v", want, d)
	}
	if got := s.FormatDate(d); got != "15-01-2024" {
		t.Fatalf("format: got %s", got)
	}

	for _, bad := range []string{"2024-01-15", "32-01-2024", "15/01/2024", ""} {
		if _, err := s.ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestSchemaValidate(t *testing.T) {
	if err := DefaultSchema().Validate(); err != nil {
		t.Fatalf("default schema invalid: %v", err)
	}
	bad := []Schema{
		{Columns: []string{"date", "amount"}, DateLayout: DefaultDateLayout},
		{Columns: []string{"date", "", "category", "description"}, DateLayout: DefaultDateLayout},
		{Columns: DefaultSchema().Columns, DateLayout: ""},
		{Columns: DefaultSchema().Columns, DateLayout: "01-2006"},
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSchemaParseRecord(t *testing.T) {
	s := DefaultSchema()
	tx, err := s.ParseRecord(Record{Date: "01-01-2024", Amount: "1000", Category: "Income", Description: "salary"})
	if err != nil {
		t.Fatalf("parse record: %v", err)
	}
	if tx.Category != Income || tx.Amount.String() != "1000" || tx.Description != "salary" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	_, err = s.ParseRecord(Record{Date: "01-01-2024", Amount: "lots", Category: "Income"})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "amount" || fe.Value != "lots" {
		t.Fatalf("expected amount FieldError, got %v", err)
	}

	_, err = s.ParseRecord(Record{Date: "2024/01/01", Amount: "1", Category: "Income"})
	if !errors.As(err, &fe) || fe.Field != "date" {
		t.Fatalf("expected date FieldError, got %v", err)
	}
}
