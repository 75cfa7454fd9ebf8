package core

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"Income", Income},
		{"income", Income},
		{" EXPENSE ", Expense},
		{"Savings", Category("Savings")},
		{"", Category("")},
	}
	for _, tc := range cases {
		if got := ParseCategory(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestCategoryIsRecognized(t *testing.T) {
	if !Income.IsRecognized() || !Expense.IsRecognized() {
		t.Fatalf("Income and Expense must be recognized")
	}
	for _, c := range []Category{"income", "Savings", ""} {
		if c.IsRecognized() {
			t.Fatalf("%q should not be recognized", c)
		}
	}
}

func TestRecordFieldsRoundTrip(t *testing.T) {
	r := Record{Date: "01-01-2024", Amount: "1000", Category: "Income", Description: "salary"}
	if got := RecordFromFields(r.Fields()); got != r {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	short := RecordFromFields([]string{"01-01-2024", "5", "Expense"})
	if short.Description != "" || short.Category != "Expense" {
		t.Fatalf("unexpected short record: %+v", short)
	}
}

func TestTransactionRecord(t *testing.T) {
	tx := Transaction{
		Date:        civil.Date{Year: 2024, Month: time.January, Day: 15},
		Amount:      decimal.RequireFromString("200.50"),
		Category:    Expense,
		Description: "groceries",
	}
	got := tx.Record(DefaultSchema())
	want := Record{Date: "15-01-2024", Amount: "200.5", Category: "Expense", Description: "groceries"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestValidationPolicy(t *testing.T) {
	s := DefaultSchema()
	strict, err := PolicyByName("strict")
	if err != nil {
		t.Fatalf("strict policy: %v", err)
	}
	lenient, err := PolicyByName("")
	if err != nil || !lenient.IsLenient() {
		t.Fatalf("empty name should map to lenient, got %+v err=%v", lenient, err)
	}
	if _, err := PolicyByName("paranoid"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}

	good := Record{Date: "01-01-2024", Amount: "10", Category: "Income", Description: "x"}
	if err := strict.Check(s, good); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		r    Record
		want error
	}{
		{"bad date", Record{Date: "2024-01-01", Amount: "10", Category: "Income"}, ErrInvalidDate},
		{"bad amount", Record{Date: "01-01-2024", Amount: "ten", Category: "Income"}, ErrInvalidAmount},
		{"negative", Record{Date: "01-01-2024", Amount: "-1", Category: "Income"}, ErrNegativeAmount},
		{"category", Record{Date: "01-01-2024", Amount: "1", Category: "Gift"}, ErrUnknownCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := strict.Check(s, tc.r)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FieldError, got %T", err)
			}
			if err := lenient.Check(s, tc.r); err != nil {
				t.Fatalf("lenient policy must accept %+v, got %v", tc.r, err)
			}
		})
	}
}
