package core

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

type (
	// Category is an open string. Only Income and Expense take part in totals;
	// any other value is stored and returned but never aggregated.
	Category string

	// Record is one stored row with every field in its persisted text form.
	Record struct {
		Date        string
		Amount      string
		Category    string
		Description string
	}

	// Transaction is a Record after its date and amount have been parsed.
	Transaction struct {
		Date        civil.Date
		Amount      decimal.Decimal
		Category    Category
		Description string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrUnknownCategory = errors.New("unknown category")
)

// RecognizedCategories lists the categories that contribute to aggregates.
func RecognizedCategories() []Category {
	return []Category{Income, Expense}
}

// IsRecognized reports whether c is Income or Expense (exact match).
func (c Category) IsRecognized() bool {
	return c == Income || c == Expense
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory maps user input onto a recognized category ignoring case
// and surrounding spaces ("income", " EXPENSE"). Unrecognized input is
// returned trimmed and unchanged.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range RecognizedCategories() {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Category(s)
}

// Fields returns the record in the fixed field order of the store schema.
func (r Record) Fields() []string {
	return []string{r.Date, r.Amount, r.Category, r.Description}
}

// RecordFromFields builds a Record from fields in schema order.
// Missing trailing fields are left empty.
func RecordFromFields(fields []string) Record {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Record{
		Date:        get(0),
		Amount:      get(1),
		Category:    get(2),
		Description: get(3),
	}
}

// Record converts the transaction into its stored text form.
func (t Transaction) Record(s Schema) Record {
	return Record{
		Date:        s.FormatDate(t.Date),
		Amount:      t.Amount.String(),
		Category:    string(t.Category),
		Description: t.Description,
	}
}
