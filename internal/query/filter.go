// Package query selects ledger records inside an inclusive date range and
// aggregates income and expense totals.
package query

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/store"
)

// Summary holds the aggregate scalars of a selection.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetSavings   decimal.Decimal
}

// Result is the outcome of a range query. Empty is set when no record falls
// in the range, which callers must tell apart from matches with zero totals.
type Result struct {
	Start        civil.Date
	End          civil.Date
	Transactions []core.Transaction
	Summary      Summary
	Empty        bool
}

// Filter re-reads and re-parses the whole store on every call.
type Filter struct {
	store  store.Reader
	schema core.Schema
}

func NewFilter(r store.Reader, schema core.Schema) *Filter {
	return &Filter{store: r, schema: schema}
}

// Range returns the records with start <= date <= end in store order.
// start after end yields an empty result, not an error. Any stored record
// with an unparsable date or amount fails the whole query with a ParseError.
func (f *Filter) Range(ctx context.Context, start, end string) (Result, error) {
	startDate, err := f.schema.ParseDate(start)
	if err != nil {
		return Result{}, &BoundError{Name: "start_date", Value: start, Err: err}
	}
	endDate, err := f.schema.ParseDate(end)
	if err != nil {
		return Result{}, &BoundError{Name: "end_date", Value: end, Err: err}
	}

	records, err := f.store.ReadAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read ledger: %w", err)
	}

	txs, err := ParseAll(f.schema, records)
	if err != nil {
		return Result{}, err
	}

	return Select(txs, startDate, endDate), nil
}

// ParseAll parses every record, stopping at the first failure.
func ParseAll(schema core.Schema, records []core.Record) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(records))
	for i, r := range records {
		tx, err := schema.ParseRecord(r)
		if err != nil {
			pe := &ParseError{Row: i + 1, Record: r, Err: err}
			var fe *core.FieldError
			if errors.As(err, &fe) {
				pe.Field, pe.Value, pe.Err = fe.Field, fe.Value, fe.Err
			}
			return nil, pe
		}
		out = append(out, tx)
	}
	return out, nil
}

// Select keeps the transactions dated within [start, end], both inclusive,
// preserving their order, and summarizes them.
func Select(txs []core.Transaction, start, end civil.Date) Result {
	res := Result{Start: start, End: end}
	for _, tx := range txs {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	res.Summary = Summarize(res.Transactions)
	res.Empty = len(res.Transactions) == 0
	return res
}

// Summarize sums Income and Expense amounts. Other categories contribute to
// neither total.
func Summarize(txs []core.Transaction) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Category {
		case core.Income:
			income = income.Add(tx.Amount)
		case core.Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		NetSavings:   income.Sub(expense),
	}
}
