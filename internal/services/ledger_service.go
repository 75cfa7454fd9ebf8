package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/query"
	"ledger/internal/resample"
	"ledger/internal/store"
)

// Publisher announces appended records to other processes.
type Publisher interface {
	PublishTransactionAppended(ctx context.Context, r core.Record) error
}

// LedgerService orchestrates appends and queries over one record store.
type LedgerService struct {
	store     store.Store
	filter    *query.Filter
	schema    core.Schema
	policy    core.ValidationPolicy
	publisher Publisher
	now       func() time.Time
}

// NewLedgerService wires the service. publisher may be nil.
func NewLedgerService(s store.Store, schema core.Schema, policy core.ValidationPolicy, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     s,
		filter:    query.NewFilter(s, schema),
		schema:    schema,
		policy:    policy,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *LedgerService) Schema() core.Schema {
	return s.schema
}

// Today returns the current local date in the canonical layout.
func (s *LedgerService) Today() string {
	return s.schema.FormatDate(civil.DateOf(s.now()))
}

// Init creates the backing store if it does not exist yet.
func (s *LedgerService) Init(ctx context.Context) error {
	if err := s.store.EnsureInitialized(ctx); err != nil {
		return fmt.Errorf("initialize ledger: %w", err)
	}
	slog.DebugContext(ctx, "Ledger initialized", applog.FieldOperation, applog.OpInit)
	return nil
}

// Add validates r against the policy, appends it and publishes an append
// event. A publish failure is logged and does not fail the append.
func (s *LedgerService) Add(ctx context.Context, r core.Record) error {
	if err := s.policy.Check(s.schema, r); err != nil {
		return fmt.Errorf("validate record: %w", err)
	}

	if err := s.store.Append(ctx, r); err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping append event")
		return nil
	}
	if err := s.publisher.PublishTransactionAppended(ctx, r); err != nil {
		slog.ErrorContext(ctx, "Failed to publish append event",
			applog.FieldOperation, applog.OpAppend,
			"date", r.Date,
			applog.FieldError, err)
	}
	return nil
}

// Transactions runs a range query.
func (s *LedgerService) Transactions(ctx context.Context, start, end string) (query.Result, error) {
	res, err := s.filter.Range(ctx, start, end)
	if err != nil {
		return query.Result{}, err
	}
	fields := applog.NewFields().
		WithOperation(applog.OpQuery).
		WithRange(start, end)
	fields[applog.FieldRows] = len(res.Transactions)
	slog.DebugContext(ctx, "Range query", fields.ToSlice()...)
	return res, nil
}

// DailySeries runs a range query and resamples the selection by day.
func (s *LedgerService) DailySeries(ctx context.Context, start, end string) (query.Result, resample.Series, error) {
	res, err := s.Transactions(ctx, start, end)
	if err != nil {
		return query.Result{}, resample.Series{}, err
	}
	return res, resample.Daily(res.Transactions), nil
}

// Close releases the publisher. The store belongs to the backend factory.
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
