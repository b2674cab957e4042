package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const syncTracerName = "github.com/KasumiMercury/primind-void-timer/internal/service/syncqueue"

func SyncTracer() trace.Tracer {
	return otel.Tracer(syncTracerName)
}

func StartDrainSpan(ctx context.Context, drainID string) (context.Context, trace.Span) {
	return SyncTracer().Start(ctx, "syncqueue.drain",
		trace.WithAttributes(
			attribute.String("drain.id", drainID),
		),
	)
}

func StartBatchSaveSpan(ctx context.Context, url string, size int) (context.Context, trace.Span) {
	return SyncTracer().Start(ctx, "syncqueue.remote.batch_save",
		trace.WithAttributes(
			attribute.String("url", url),
			attribute.Int("batch.size", size),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return SyncTracer().Start(ctx, "syncqueue.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordDrainResult(span trace.Span, submitted, confirmed, remaining int, err error) {
	span.SetAttributes(
		attribute.Int("drain.submitted_count", submitted),
		attribute.Int("drain.confirmed_count", confirmed),
		attribute.Int("drain.remaining_count", remaining),
	)
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// InjectToHTTPRequest writes the W3C trace context of ctx into req headers.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// ExtractFromHTTPRequest returns ctx carrying the remote span context of req.
func ExtractFromHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(req.Header))
}
