package csvfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/core"
	"ledger/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "finance_data.csv"), core.DefaultSchema())
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestEnsureInitializedCreatesHeaderOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureInitialized(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "date,amount,category,description\n" {
		t.Fatalf("unexpected content %q", data)
	}

	records, err := s.ReadAll(ctx)
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty ledger, got %v err=%v", records, err)
	}
}

func TestEnsureInitializedNeverTruncates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := core.Record{Date: "01-01-2024", Amount: "1000", Category: "Income", Description: "salary"}

	if err := s.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.EnsureInitialized(ctx); err != nil {
			t.Fatalf("init %d: %v", i, err)
		}
	}
	records, err := s.ReadAll(ctx)
	if err != nil || len(records) != 1 || records[0] != rec {
		t.Fatalf("expected record to survive, got %v err=%v", records, err)
	}
}

func TestEnsureInitializedCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.csv")
	s := New(path, core.DefaultSchema())
	if err := s.EnsureInitialized(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file: %v", err)
	}
}

func TestAppendReadAllRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var want []core.Record
	for i := 0; i < 25; i++ {
		r := core.Record{
			Date:        fmt.Sprintf("%02d-03-2024", i%28+1),
			Amount:      fmt.Sprintf("%d.%02d", i*10, i),
			Category:    []string{"Income", "Expense", "Transfer"}[i%3],
			Description: fmt.Sprintf("item, \"%d\"\nwith newline", i),
		}
		want = append(want, r)
		if err := s.Append(ctx, r); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestAppendStoresMalformedInputVerbatim(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bad := core.Record{Date: "20-27-24", Amount: "abc", Category: "Gift", Description: ""}
	if err := s.Append(ctx, bad); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := s.ReadAll(ctx)
	if err != nil || len(got) != 1 || got[0] != bad {
		t.Fatalf("expected verbatim record, got %v err=%v", got, err)
	}
}

func TestAppendAfterMissingTrailingNewline(t *testing.T) {
	s := newTestStore(t)
	mustWrite(t, s.Path(), "date,amount,category,description\n01-01-2024,1000,Income,salary")

	rec := core.Record{Date: "15-01-2024", Amount: "200", Category: "Expense", Description: "groceries"}
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := s.ReadAll(context.Background())
	if err != nil || len(got) != 2 || got[1] != rec {
		t.Fatalf("unexpected records %v err=%v", got, err)
	}
}

func TestReadAllMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ReadAll(context.Background())
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatalf("ReadAll must not create the file")
	}
}

func TestReadAllFormatErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		line    int
		reason  string
	}{
		{"empty file", "", 0, "missing header"},
		{"wrong header", "when,amount,category,description\n", 1, "does not match"},
		{"short header", "date,amount,category\n", 1, "field"},
		{"wrong column count", "date,amount,category,description\n01-01-2024,10,Income\n", 2, "wrong number of fields"},
		{"extra column", "date,amount,category,description\n01-01-2024,10,Income,x,y\n", 2, "wrong number of fields"},
		{"bare quote", "date,amount,category,description\n01-01-2024,10,Income,a\"b\n", 2, "quote"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)
			mustWrite(t, s.Path(), tc.content)

			_, err := s.ReadAll(context.Background())
			var fe *store.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormatError, got %v", err)
			}
			if fe.Line != tc.line {
				t.Fatalf("expected line %d, got %d (%v)", tc.line, fe.Line, err)
			}
			if !strings.Contains(fe.Reason, tc.reason) {
				t.Fatalf("expected reason containing %q, got %q", tc.reason, fe.Reason)
			}
		})
	}
}

func TestReadAllAcceptsPandasStyleFile(t *testing.T) {
	s := newTestStore(t)
	mustWrite(t, s.Path(), "date,amount,category,description\r\n01-01-2024,1000.0,Income,salary\r\n\r\n15-01-2024,200.0,Expense,groceries\r\n")

	got, err := s.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].Amount != "1000.0" || got[1].Description != "groceries" {
		t.Fatalf("unexpected records %+v", got)
	}
}
