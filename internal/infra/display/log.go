package display

import (
	"context"
	"log/slog"
	"time"
)

// LogPublisher records display signals in the log. It is used when no
// companion surface can subscribe.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) RefreshTimelines(ctx context.Context) {
	slog.DebugContext(ctx, "timeline refresh requested")
}

func (p *LogPublisher) Alert(ctx context.Context, deadline time.Time) {
	slog.InfoContext(ctx, "overdue alert",
		slog.String("event", "display.overdue"),
		slog.Time("deadline", deadline),
	)
}
