package taskqueue

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

const defaultMaxRetries = 3

// withRetry runs fn up to maxRetries times with exponential backoff starting
// at 100ms.
func withRetry(ctx context.Context, maxRetries int, operation string, attrs []slog.Attr, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.LogAttrs(ctx, slog.LevelDebug, "retrying "+operation,
				append(attrs,
					slog.Int("attempt", attempt+1),
					slog.Duration("backoff", backoff),
				)...,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.LogAttrs(ctx, slog.LevelError, "all retries exhausted for "+operation,
		append(attrs,
			slog.Int("max_retries", maxRetries),
			slog.String("error", lastErr.Error()),
		)...,
	)
	return fmt.Errorf("failed %s after %d retries: %w", operation, maxRetries, lastErr)
}

// taskIDFromName returns the last path segment of a task name.
func taskIDFromName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
