// Package resample turns a selection of transactions into two daily series,
// one for income and one for expense, aligned on the same dates.
package resample

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Point is the summed amount of one category on one day.
type Point struct {
	Date   civil.Date
	Amount decimal.Decimal
}

// Series holds the income and expense points. Both slices share the same
// dates, in ascending order, so Income[i].Date == Expense[i].Date.
type Series struct {
	Income  []Point
	Expense []Point
}

// Dates returns the shared date axis.
func (s Series) Dates() []civil.Date {
	out := make([]civil.Date, len(s.Income))
	for i, p := range s.Income {
		out[i] = p.Date
	}
	return out
}

// Len is the number of days on the axis.
func (s Series) Len() int {
	return len(s.Income)
}

// Daily buckets txs by calendar day. The axis is the set of distinct dates
// observed across all of txs, whatever their category; a day with no
// amount for a category contributes zero to that series. Days without any
// transaction are not filled in.
func Daily(txs []core.Transaction) Series {
	income := map[civil.Date]decimal.Decimal{}
	expense := map[civil.Date]decimal.Decimal{}
	seen := map[civil.Date]struct{}{}

	for _, tx := range txs {
		seen[tx.Date] = struct{}{}
		switch tx.Category {
		case core.Income:
			income[tx.Date] = income[tx.Date].Add(tx.Amount)
		case core.Expense:
			expense[tx.Date] = expense[tx.Date].Add(tx.Amount)
		}
	}

	dates := make([]civil.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	s := Series{
		Income:  make([]Point, len(dates)),
		Expense: make([]Point, len(dates)),
	}
	for i, d := range dates {
		s.Income[i] = Point{Date: d, Amount: income[d]}
		s.Expense[i] = Point{Date: d, Amount: expense[d]}
	}
	return s
}

// Total sums the amounts of a series.
func Total(points []Point) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range points {
		sum = sum.Add(p.Amount)
	}
	return sum
}
