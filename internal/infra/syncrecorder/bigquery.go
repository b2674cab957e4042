//go:build gcloud

package syncrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt     time.Time `bigquery:"recorded_at"`
	StartedAt      time.Time `bigquery:"started_at"`
	RunID          string    `bigquery:"run_id"`
	DrainID        string    `bigquery:"drain_id"`
	Outcome        string    `bigquery:"outcome"`
	DurationMS     int64     `bigquery:"duration_ms"`
	SubmittedCount int64     `bigquery:"submitted_count"`
	ConfirmedCount int64     `bigquery:"confirmed_count"`
	FailedCount    int64     `bigquery:"failed_count"`
	RemainingCount int64     `bigquery:"remaining_count"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg Config) (domain.SyncResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "sync result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, sync result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, sync result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "sync result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordDrain(ctx context.Context, record domain.DrainRecord) error {
	row := &bigQueryRecord{
		RecordedAt:     time.Now(),
		StartedAt:      record.StartedAt,
		RunID:          runID(ctx),
		DrainID:        record.DrainID,
		Outcome:        record.Outcome,
		DurationMS:     record.Duration.Milliseconds(),
		SubmittedCount: int64(record.SubmittedCount),
		ConfirmedCount: int64(record.ConfirmedCount),
		FailedCount:    int64(record.FailedCount),
		RemainingCount: int64(record.RemainingCount),
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("failed to insert drain record to BigQuery: %w", err)
	}
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
