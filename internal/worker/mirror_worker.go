package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"ledger/internal/amqp"
	applog "ledger/internal/log"
	"ledger/internal/store"
)

// MirrorWorker copies appended ledger records into a secondary store.
// It is safe for concurrent use; writes to the mirror are serialized so a
// backfill is never interleaved with event appends.
type MirrorWorker struct {
	mirror store.Store

	mu          sync.Mutex
	initialized bool

	writeMu sync.Mutex
}

func NewMirrorWorker(mirror store.Store) *MirrorWorker {
	return &MirrorWorker{mirror: mirror}
}

// HandleAppended appends the record carried by msg to the mirror. A
// redelivered message is appended again.
func (w *MirrorWorker) HandleAppended(ctx context.Context, msg *amqp.TransactionAppendedMessage) error {
	slog.InfoContext(ctx, "Mirroring appended transaction",
		applog.FieldOperation, applog.OpMirror,
		applog.FieldEventID, msg.EventID,
		"date", msg.Record.Date)

	if err := w.ensureInitialized(ctx); err != nil {
		return err
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if err := w.mirror.Append(ctx, msg.CoreRecord()); err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}
	return nil
}

// Backfill brings the mirror level with primary by appending the primary
// records past the mirror's current length. The mirror is treated as a
// prefix of primary, so a run that failed partway is completed by the next
// one. It returns the number of records copied.
func (w *MirrorWorker) Backfill(ctx context.Context, primary store.Reader) (int, error) {
	if err := w.ensureInitialized(ctx); err != nil {
		return 0, err
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	existing, err := w.mirror.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("read mirror: %w", err)
	}
	records, err := primary.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("read primary: %w", err)
	}

	if len(existing) >= len(records) {
		slog.InfoContext(ctx, "Mirror up to date, skipping backfill",
			applog.FieldOperation, applog.OpBackfill,
			applog.FieldRows, len(existing))
		return 0, nil
	}

	missing := records[len(existing):]
	for i, r := range missing {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := w.mirror.Append(ctx, r); err != nil {
			return i, fmt.Errorf("append record %d to mirror: %w", len(existing)+i+1, err)
		}
	}

	slog.InfoContext(ctx, "Backfilled mirror",
		applog.FieldOperation, applog.OpBackfill,
		applog.FieldRows, len(missing))
	return len(missing), nil
}

func (w *MirrorWorker) ensureInitialized(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.initialized {
		return nil
	}
	if err := w.mirror.EnsureInitialized(ctx); err != nil {
		return fmt.Errorf("initialize mirror: %w", err)
	}
	w.initialized = true
	return nil
}
