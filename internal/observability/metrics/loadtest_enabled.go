//go:build loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
)

const loadtestRunKey = "loadtest.run_id"

// appendLoadtestLabels tags measurements with the run id carried in baggage
// so load-test traffic can be separated from regular traffic.
func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	member := baggage.FromContext(ctx).Member(loadtestRunKey)
	if member.Value() == "" {
		return attrs
	}
	return append(attrs, attribute.String(loadtestRunKey, member.Value()))
}
