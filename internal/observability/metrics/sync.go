package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	syncMeterName = "syncqueue.service"
)

type SyncMetrics struct {
	drainAttempts  metric.Int64Counter
	itemsConfirmed metric.Int64Counter
	itemsFailed    metric.Int64Counter
	itemsEnqueued  metric.Int64Counter
	batchDuration  metric.Float64Histogram
	pendingItems   metric.Int64Gauge
}

func NewSyncMetrics() (*SyncMetrics, error) {
	meter := otel.Meter(syncMeterName)

	drainAttempts, err := meter.Int64Counter(
		"sync_drain_attempts_total",
		metric.WithDescription("Total number of drain attempts by outcome"),
		metric.WithUnit("{drain}"),
	)
	if err != nil {
		return nil, err
	}

	itemsConfirmed, err := meter.Int64Counter(
		"sync_items_confirmed_total",
		metric.WithDescription("Total number of events confirmed by the remote store"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	itemsFailed, err := meter.Int64Counter(
		"sync_items_failed_total",
		metric.WithDescription("Total number of events rejected or not delivered"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	itemsEnqueued, err := meter.Int64Counter(
		"sync_items_enqueued_total",
		metric.WithDescription("Total number of events appended to the pending queue"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	batchDuration, err := meter.Float64Histogram(
		"sync_batch_duration_seconds",
		metric.WithDescription("Remote batch save duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	pendingItems, err := meter.Int64Gauge(
		"sync_pending_items",
		metric.WithDescription("Number of events waiting for upload"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		drainAttempts:  drainAttempts,
		itemsConfirmed: itemsConfirmed,
		itemsFailed:    itemsFailed,
		itemsEnqueued:  itemsEnqueued,
		batchDuration:  batchDuration,
		pendingItems:   pendingItems,
	}, nil
}

func (m *SyncMetrics) RecordDrain(ctx context.Context, outcome string) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("outcome", outcome),
	})
	m.drainAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *SyncMetrics) RecordBatchResult(ctx context.Context, confirmed, failed int) {
	attrs := appendLoadtestLabels(ctx, nil)
	m.itemsConfirmed.Add(ctx, int64(confirmed), metric.WithAttributes(attrs...))
	m.itemsFailed.Add(ctx, int64(failed), metric.WithAttributes(attrs...))
}

func (m *SyncMetrics) RecordEnqueued(ctx context.Context, kind string) {
	m.itemsEnqueued.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func (m *SyncMetrics) RecordBatchDuration(ctx context.Context, duration time.Duration) {
	m.batchDuration.Record(ctx, duration.Seconds())
}

func (m *SyncMetrics) RecordPending(ctx context.Context, count int) {
	m.pendingItems.Record(ctx, int64(count))
}
