package syncrecorder

import (
	"context"

	"go.opentelemetry.io/otel/baggage"
)

const (
	runIDBaggageKey = "loadtest.run_id"
	defaultRunID    = "default"
)

// runID tags records with the load-test run propagated in baggage.
func runID(ctx context.Context) string {
	if v := baggage.FromContext(ctx).Member(runIDBaggageKey).Value(); v != "" {
		return v
	}
	return defaultRunID
}
