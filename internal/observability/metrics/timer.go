package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	timerMeterName = "timer.service"
)

type TimerMetrics struct {
	deadlineChanges metric.Int64Counter
	overdueAlerts   metric.Int64Counter
	scheduleErrors  metric.Int64Counter
}

func NewTimerMetrics() (*TimerMetrics, error) {
	meter := otel.Meter(timerMeterName)

	deadlineChanges, err := meter.Int64Counter(
		"timer_deadline_changes_total",
		metric.WithDescription("Total number of deadline changes by operation"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, err
	}

	overdueAlerts, err := meter.Int64Counter(
		"timer_overdue_alerts_total",
		metric.WithDescription("Total number of overdue alerts fired"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, err
	}

	scheduleErrors, err := meter.Int64Counter(
		"timer_schedule_errors_total",
		metric.WithDescription("Total number of failed notification cancel or schedule calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &TimerMetrics{
		deadlineChanges: deadlineChanges,
		overdueAlerts:   overdueAlerts,
		scheduleErrors:  scheduleErrors,
	}, nil
}

func (m *TimerMetrics) RecordDeadlineChange(ctx context.Context, operation string) {
	m.deadlineChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func (m *TimerMetrics) RecordOverdueAlert(ctx context.Context) {
	m.overdueAlerts.Add(ctx, 1)
}

func (m *TimerMetrics) RecordScheduleError(ctx context.Context, step string) {
	m.scheduleErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
	))
}
