package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const timerTracerName = "github.com/KasumiMercury/primind-void-timer/internal/service/timer"

func TimerTracer() trace.Tracer {
	return otel.Tracer(timerTracerName)
}

func StartDeadlineChangeSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return TimerTracer().Start(ctx, "timer."+operation)
}

func RecordDeadline(span trace.Span, deadline time.Time, err error) {
	span.SetAttributes(
		attribute.String("timer.deadline", deadline.Format(time.RFC3339)),
	)
	RecordError(span, err)
}
