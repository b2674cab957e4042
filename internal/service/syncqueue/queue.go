package syncqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/metrics"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/tracing"
)

const (
	DefaultMaxBatchSize = 400
)

const (
	outcomeSuccess        = "success"
	outcomePartial        = "partial"
	outcomeTransportError = "transport_error"
	outcomeStorageError   = "storage_error"
)

type Config struct {
	MaxBatchSize int
}

// Queue is the durable outbox for events that still need to reach the
// remote store. Every mutation of the pending list is written through to
// the KVStore before it returns.
//
// At most one drain runs at a time. Delivery is at least once: an event is
// removed only after the remote store confirmed it.
type Queue struct {
	store    domain.KVStore
	remote   domain.RemoteStore
	recorder domain.SyncResultRecorder
	metrics  *metrics.SyncMetrics
	cfg      Config

	// mu serializes read-modify-write cycles of the pending list.
	mu       sync.Mutex
	inFlight atomic.Bool

	errMu   sync.RWMutex
	lastErr error

	background sync.WaitGroup
}

func NewQueue(
	store domain.KVStore,
	remote domain.RemoteStore,
	recorder domain.SyncResultRecorder,
	syncMetrics *metrics.SyncMetrics,
	cfg Config,
) *Queue {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}
	return &Queue{
		store:    store,
		remote:   remote,
		recorder: recorder,
		metrics:  syncMetrics,
		cfg:      cfg,
	}
}

// Enqueue appends event to the pending list, persists it and returns the new
// length. A drain is started in the background; Enqueue never waits on the
// network.
func (q *Queue) Enqueue(ctx context.Context, event domain.Event) (int, error) {
	if event.ID == uuid.Nil {
		return 0, ErrInvalidEvent
	}

	n, err := q.append(ctx, event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enqueue event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()),
		)
		return 0, err
	}

	slog.DebugContext(ctx, "event enqueued",
		slog.String("event_id", event.ID.String()),
		slog.String("kind", event.Kind.String()),
		slog.Int("pending_count", n),
	)
	if q.metrics != nil {
		q.metrics.RecordEnqueued(ctx, event.Kind.String())
		q.metrics.RecordPending(ctx, n)
	}

	q.DrainAsync(ctx)
	return n, nil
}

func (q *Queue) append(ctx context.Context, event domain.Event) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	events, err := q.updateLocked(ctx, func(events []domain.Event) ([]domain.Event, bool) {
		return append(slices.Clip(events), event), true
	})
	if err != nil {
		return 0, err
	}
	return len(events), nil
}

// DrainAsync starts a drain detached from ctx cancellation.
func (q *Queue) DrainAsync(ctx context.Context) {
	detached := context.WithoutCancel(ctx)

	q.background.Add(1)
	go func() {
		defer q.background.Done()
		_ = q.Drain(detached)
	}()
}

// Wait blocks until every drain started by DrainAsync has returned.
func (q *Queue) Wait() {
	q.background.Wait()
}

// Drain uploads the pending list. It returns nil immediately when another
// drain is in flight or nothing is pending. A transport failure keeps every
// submitted event; a partial failure keeps only the rejected ones. The
// errors of every batch in one drain are joined, and LastError reports them
// once the drain ends.
func (q *Queue) Drain(ctx context.Context) error {
	if !q.inFlight.CompareAndSwap(false, true) {
		slog.DebugContext(ctx, "drain already in flight, skipping")
		return nil
	}

	released := false
	defer func() {
		if !released {
			q.inFlight.Store(false)
		}
	}()

	var drainErr error
	submitted := make(map[uuid.UUID]struct{})
	finish := func(err error) error {
		drainErr = errors.Join(drainErr, err)
		q.setLastError(drainErr)
		return drainErr
	}

	for {
		batch, err := q.nextBatch(ctx, submitted, &released)
		if err != nil {
			return finish(err)
		}
		if len(batch) == 0 {
			if len(submitted) == 0 {
				return nil
			}
			return finish(nil)
		}

		for _, event := range batch {
			submitted[event.ID] = struct{}{}
		}

		confirmed, batchErr := q.submit(ctx, batch)
		if errors.Is(batchErr, domain.ErrRemoteTransport) {
			return finish(batchErr)
		}

		more, err := q.prune(ctx, confirmed, submitted, &released)
		if err != nil {
			return finish(errors.Join(batchErr, err))
		}

		drainErr = errors.Join(drainErr, batchErr)
		if !more {
			return finish(nil)
		}
	}
}

// nextBatch returns up to MaxBatchSize events not yet submitted by this
// drain. When there are none the guard is released under mu.
func (q *Queue) nextBatch(ctx context.Context, submitted map[uuid.UUID]struct{}, released *bool) ([]domain.Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	events, err := q.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	batch := make([]domain.Event, 0, min(len(events), q.cfg.MaxBatchSize))
	for _, event := range events {
		if _, ok := submitted[event.ID]; ok {
			continue
		}
		batch = append(batch, event)
		if len(batch) == q.cfg.MaxBatchSize {
			break
		}
	}

	if len(batch) == 0 {
		q.releaseLocked(released)
	}
	return batch, nil
}

// submit sends one batch and returns the confirmed ids. The error wraps
// domain.ErrRemoteTransport or domain.ErrPartialBatchFailure.
func (q *Queue) submit(ctx context.Context, batch []domain.Event) (map[uuid.UUID]struct{}, error) {
	drainID := uuid.NewString()
	ctx, span := tracing.StartDrainSpan(ctx, drainID)
	defer span.End()

	startedAt := time.Now()
	results, err := q.remote.SaveBatch(ctx, batch)
	duration := time.Since(startedAt)

	record := domain.DrainRecord{
		DrainID:        drainID,
		StartedAt:      startedAt,
		Duration:       duration,
		SubmittedCount: len(batch),
	}

	if err != nil {
		if !errors.Is(err, domain.ErrRemoteTransport) {
			err = fmt.Errorf("%w: %w", domain.ErrRemoteTransport, err)
		}
		slog.WarnContext(ctx, "batch save failed, keeping pending events",
			slog.String("event", "syncqueue.drain.transport_error"),
			slog.String("drain_id", drainID),
			slog.Int("submitted_count", len(batch)),
			slog.String("error", err.Error()),
		)

		record.FailedCount = len(batch)
		record.RemainingCount = len(batch)
		record.Outcome = outcomeTransportError
		q.finishBatch(ctx, record)
		tracing.RecordDrainResult(span, len(batch), 0, len(batch), err)
		return nil, err
	}

	confirmed := confirmedIDs(batch, results)
	failed := len(batch) - len(confirmed)

	record.ConfirmedCount = len(confirmed)
	record.FailedCount = failed
	record.RemainingCount = failed
	record.Outcome = outcomeSuccess

	var batchErr error
	if failed > 0 {
		batchErr = fmt.Errorf("%w: %d of %d events rejected", domain.ErrPartialBatchFailure, failed, len(batch))
		record.Outcome = outcomePartial
		slog.WarnContext(ctx, "batch save partially failed",
			slog.String("event", "syncqueue.drain.partial_failure"),
			slog.String("drain_id", drainID),
			slog.Int("confirmed_count", len(confirmed)),
			slog.Int("failed_count", failed),
		)
	} else {
		slog.InfoContext(ctx, "batch saved",
			slog.String("drain_id", drainID),
			slog.Int("confirmed_count", len(confirmed)),
		)
	}

	q.finishBatch(ctx, record)
	tracing.RecordDrainResult(span, len(batch), len(confirmed), failed, batchErr)
	return confirmed, batchErr
}

// prune removes confirmed events from a fresh read of the list. When no
// event outside submitted is left, the in-flight guard is released while mu
// is still held so that a concurrent Enqueue either lands in this drain or
// starts the next one.
func (q *Queue) prune(ctx context.Context, confirmed, submitted map[uuid.UUID]struct{}, released *bool) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept, err := q.updateLocked(ctx, func(events []domain.Event) ([]domain.Event, bool) {
		kept := make([]domain.Event, 0, len(events))
		for _, event := range events {
			if _, ok := confirmed[event.ID]; !ok {
				kept = append(kept, event)
			}
		}
		return kept, len(kept) != len(events)
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to remove confirmed events",
			slog.String("event", "syncqueue.prune.save_failed"),
			slog.Int("confirmed_count", len(confirmed)),
			slog.String("error", err.Error()),
		)
		q.recordOutcome(ctx, outcomeStorageError)
		return false, err
	}

	if q.metrics != nil {
		q.metrics.RecordPending(ctx, len(kept))
	}

	for _, event := range kept {
		if _, ok := submitted[event.ID]; !ok {
			return true, nil
		}
	}

	q.releaseLocked(released)
	return false, nil
}

func (q *Queue) releaseLocked(released *bool) {
	q.inFlight.Store(false)
	*released = true
}

func (q *Queue) finishBatch(ctx context.Context, record domain.DrainRecord) {
	q.recordOutcome(ctx, record.Outcome)
	if q.metrics != nil {
		q.metrics.RecordBatchDuration(ctx, record.Duration)
		q.metrics.RecordBatchResult(ctx, record.ConfirmedCount, record.FailedCount)
	}

	if q.recorder == nil {
		return
	}
	if err := q.recorder.RecordDrain(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record drain result",
			slog.String("event", "syncqueue.recorder.failed"),
			slog.String("drain_id", record.DrainID),
			slog.String("error", err.Error()),
		)
	}
}

func (q *Queue) recordOutcome(ctx context.Context, outcome string) {
	if q.metrics != nil {
		q.metrics.RecordDrain(ctx, outcome)
	}
}

// Pending returns a copy of the persisted pending list.
func (q *Queue) Pending(ctx context.Context) ([]domain.Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.loadLocked(ctx)
}

func (q *Queue) InFlight() bool {
	return q.inFlight.Load()
}

// LastError returns the joined batch errors of the most recent drain that
// submitted anything, or nil if all of its batches succeeded.
func (q *Queue) LastError() error {
	q.errMu.RLock()
	defer q.errMu.RUnlock()

	return q.lastErr
}

func (q *Queue) setLastError(err error) {
	q.errMu.Lock()
	defer q.errMu.Unlock()

	q.lastErr = err
}

// confirmedIDs returns the ids of batch with a successful result. An event
// without any result is treated as failed.
func confirmedIDs(batch []domain.Event, results []domain.SaveResult) map[uuid.UUID]struct{} {
	inBatch := make(map[uuid.UUID]struct{}, len(batch))
	for _, event := range batch {
		inBatch[event.ID] = struct{}{}
	}

	confirmed := make(map[uuid.UUID]struct{}, len(results))
	for _, result := range results {
		if _, ok := inBatch[result.ID]; ok && result.Confirmed() {
			confirmed[result.ID] = struct{}{}
		}
	}
	return confirmed
}

// Clear drops every pending event.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.saveLocked(ctx, nil); err != nil {
		return err
	}
	if q.metrics != nil {
		q.metrics.RecordPending(ctx, 0)
	}
	return nil
}
