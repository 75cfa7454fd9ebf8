package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/query"
	"ledger/internal/store/memory"
)

type fakePublisher struct {
	published []core.Record
	err       error
	closed    bool
}

func (f *fakePublisher) PublishTransactionAppended(_ context.Context, r core.Record) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, r)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func newService(t *testing.T, policy core.ValidationPolicy, pub Publisher) (*LedgerService, *memory.Store) {
	t.Helper()
	s := memory.New()
	return NewLedgerService(s, core.DefaultSchema(), policy, pub), s
}

func TestLedgerService_AddPublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc, st := newService(t, core.ValidationPolicy{}, pub)
	rec := core.Record{Date: "01-01-2024", Amount: "1000", Category: "Income", Description: "salary"}

	if err := svc.Add(context.Background(), rec); err != nil {
		t.Fatalf("Add: %v", err)
	}

	rows, _ := st.ReadAll(context.Background())
	if len(rows) != 1 || rows[0] != rec {
		t.Fatalf("stored %+v", rows)
	}
	if len(pub.published) != 1 || pub.published[0] != rec {
		t.Fatalf("published %+v", pub.published)
	}
}

func TestLedgerService_PublishFailureDoesNotFailAppend(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, st := newService(t, core.ValidationPolicy{}, pub)

	if err := svc.Add(context.Background(), core.Record{Date: "01-01-2024", Amount: "5", Category: "Expense"}); err != nil {
		t.Fatalf("Add should succeed when publish fails: %v", err)
	}
	if rows, _ := st.ReadAll(context.Background()); len(rows) != 1 {
		t.Fatalf("record not stored")
	}
}

func TestLedgerService_Policy(t *testing.T) {
	strict, _ := core.PolicyByName(core.PolicyStrict)
	tests := []struct {
		name    string
		policy  core.ValidationPolicy
		rec     core.Record
		wantErr error
	}{
		{"lenient stores negative", core.ValidationPolicy{}, core.Record{Date: "01-01-2024", Amount: "-5", Category: "Expense"}, nil},
		{"lenient stores unknown category", core.ValidationPolicy{}, core.Record{Date: "01-01-2024", Amount: "5", Category: "Gift"}, nil},
		{"strict rejects negative", strict, core.Record{Date: "01-01-2024", Amount: "-5", Category: "Expense"}, core.ErrNegativeAmount},
		{"strict rejects unknown category", strict, core.Record{Date: "01-01-2024", Amount: "5", Category: "Gift"}, core.ErrUnknownCategory},
		{"strict rejects bad date", strict, core.Record{Date: "2024-01-01", Amount: "5", Category: "Income"}, core.ErrInvalidDate},
		{"strict accepts valid", strict, core.Record{Date: "01-01-2024", Amount: "5", Category: "Income"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			svc, st := newService(t, tt.policy, pub)
			err := svc.Add(context.Background(), tt.rec)
			rows, _ := st.ReadAll(context.Background())

			if tt.wantErr == nil {
				if err != nil || len(rows) != 1 {
					t.Fatalf("expected stored record, err=%v rows=%d", err, len(rows))
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(rows) != 0 || len(pub.published) != 0 {
				t.Fatalf("rejected record must not be stored or published")
			}
		})
	}
}

func TestLedgerService_TransactionsAndSeries(t *testing.T) {
	svc, _ := newService(t, core.ValidationPolicy{}, nil)
	ctx := context.Background()
	for _, r := range []core.Record{
		{Date: "01-01-2024", Amount: "1000", Category: "Income", Description: "salary"},
		{Date: "15-01-2024", Amount: "200", Category: "Expense", Description: "groceries"},
		{Date: "20-02-2024", Amount: "50", Category: "Expense", Description: "transit"},
	} {
		if err := svc.Add(ctx, r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	res, series, err := svc.DailySeries(ctx, "01-01-2024", "31-01-2024")
	if err != nil {
		t.Fatalf("DailySeries: %v", err)
	}
	if len(res.Transactions) != 2 || !res.Summary.NetSavings.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected result %+v", res)
	}
	if series.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", series.Len())
	}

	_, err = svc.Transactions(ctx, "bad", "31-01-2024")
	var be *query.BoundError
	if !errors.As(err, &be) {
		t.Fatalf("expected BoundError, got %v", err)
	}
}

func TestLedgerService_Today(t *testing.T) {
	svc, _ := newService(t, core.ValidationPolicy{}, nil)
	svc.now = func() time.Time { return time.Date(2024, time.March, 7, 23, 0, 0, 0, time.Local) }
	if got := svc.Today(); got != "07-03-2024" {
		t.Fatalf("Today() = %q", got)
	}
}

func TestLedgerService_Close(t *testing.T) {
	t.Run("nil publisher", func(t *testing.T) {
		svc, _ := newService(t, core.ValidationPolicy{}, nil)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})

	t.Run("closes publisher", func(t *testing.T) {
		pub := &fakePublisher{}
		svc, _ := newService(t, core.ValidationPolicy{}, pub)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !pub.closed {
			t.Fatal("publisher not closed")
		}
	})
}

func TestLedgerService_RangeQueryLogFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	svc, _ := newService(t, core.ValidationPolicy{}, nil)
	if _, err := svc.Transactions(context.Background(), "01-01-2024", "31-01-2024"); err != nil {
		t.Fatalf("Transactions: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		applog.FieldOperation + "=" + applog.OpQuery,
		applog.FieldStartDate + "=01-01-2024",
		applog.FieldEndDate + "=31-01-2024",
		applog.FieldRows + "=0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
