//go:build !gcloud

package syncrecorder

import (
	"context"
	"fmt"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

const measurement = "sync_drain"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewRecorder(ctx context.Context, cfg Config) (domain.SyncResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "sync result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, sync result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "sync result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
	}, nil
}

func (r *influxDBRecorder) RecordDrain(ctx context.Context, record domain.DrainRecord) error {
	if err := r.writeAPI.WritePoint(ctx, drainPoint(ctx, record)); err != nil {
		return fmt.Errorf("failed to write drain record to InfluxDB: %w", err)
	}
	return nil
}

func drainPoint(ctx context.Context, record domain.DrainRecord) *write.Point {
	return influxdb2.NewPoint(
		measurement,
		map[string]string{
			"run_id":  runID(ctx),
			"outcome": record.Outcome,
		},
		map[string]any{
			"drain_id":        record.DrainID,
			"submitted_count": record.SubmittedCount,
			"confirmed_count": record.ConfirmedCount,
			"failed_count":    record.FailedCount,
			"remaining_count": record.RemainingCount,
			"duration_ms":     record.Duration.Milliseconds(),
		},
		record.StartedAt,
	)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
