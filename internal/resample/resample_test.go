package resample

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/query"
)

func day(m time.Month, d int) civil.Date {
	return civil.Date{Year: 2024, Month: m, Day: d}
}

func tx(date civil.Date, amount string, cat core.Category) core.Transaction {
	return core.Transaction{Date: date, Amount: decimal.RequireFromString(amount), Category: cat}
}

func TestDailyAlignsSeries(t *testing.T) {
	s := Daily([]core.Transaction{
		tx(day(time.January, 1), "1000", core.Income),
		tx(day(time.January, 15), "200", core.Expense),
	})

	want := []struct {
		date            civil.Date
		income, expense string
	}{
		{day(time.January, 1), "1000", "0"},
		{day(time.January, 15), "0", "200"},
	}
	if s.Len() != len(want) || len(s.Expense) != len(want) {
		t.Fatalf("expected %d points, got income=%d expense=%d", len(want), len(s.Income), len(s.Expense))
	}
	for i, w := range want {
		if s.Income[i].Date != w.date || s.Expense[i].Date != w.date {
			t.Errorf("point %d: dates %v/%v, want %v", i, s.Income[i].Date, s.Expense[i].Date, w.date)
		}
		if !s.Income[i].Amount.Equal(decimal.RequireFromString(w.income)) {
			t.Errorf("point %d: income %s, want %s", i, s.Income[i].Amount, w.income)
		}
		if !s.Expense[i].Amount.Equal(decimal.RequireFromString(w.expense)) {
			t.Errorf("point %d: expense %s, want %s", i, s.Expense[i].Amount, w.expense)
		}
	}
}

func TestDailySumsSameDayAndSortsDates(t *testing.T) {
	s := Daily([]core.Transaction{
		tx(day(time.March, 3), "10", core.Expense),
		tx(day(time.January, 9), "5", core.Income),
		tx(day(time.March, 3), "2.5", core.Expense),
		tx(day(time.February, 1), "7", core.Category("Transfer")),
	})

	dates := s.Dates()
	if len(dates) != 3 {
		t.Fatalf("expected 3 distinct dates, got %v", dates)
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Fatalf("dates not strictly ascending: %v", dates)
		}
	}
	// The Transfer day is on the axis with zeros in both series.
	if dates[1] != day(time.February, 1) || !s.Income[1].Amount.IsZero() || !s.Expense[1].Amount.IsZero() {
		t.Fatalf("unexpected middle point: %+v %+v", s.Income[1], s.Expense[1])
	}
	if !s.Expense[2].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("same-day expenses not summed: %s", s.Expense[2].Amount)
	}
}

func TestDailyEmpty(t *testing.T) {
	s := Daily(nil)
	if s.Len() != 0 || len(s.Expense) != 0 || len(s.Dates()) != 0 {
		t.Fatalf("expected empty series, got %+v", s)
	}
}

func TestDailyTotalsMatchSummary(t *testing.T) {
	txs := []core.Transaction{
		tx(day(time.January, 1), "1000", core.Income),
		tx(day(time.January, 1), "12.34", core.Expense),
		tx(day(time.January, 15), "200", core.Expense),
		tx(day(time.January, 20), "99.99", core.Income),
		tx(day(time.January, 20), "3", core.Category("Other")),
	}
	s := Daily(txs)
	sum := query.Summarize(txs)
	if !Total(s.Income).Equal(sum.TotalIncome) {
		t.Errorf("income total %s, summary %s", Total(s.Income), sum.TotalIncome)
	}
	if !Total(s.Expense).Equal(sum.TotalExpense) {
		t.Errorf("expense total %s, summary %s", Total(s.Expense), sum.TotalExpense)
	}
}
