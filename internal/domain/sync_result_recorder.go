package domain

import (
	"context"
	"time"
)

// DrainRecord summarizes one batch submission of the sync queue.
type DrainRecord struct {
	DrainID        string
	StartedAt      time.Time
	Duration       time.Duration
	SubmittedCount int
	ConfirmedCount int
	FailedCount    int
	RemainingCount int
	Outcome        string
}

type SyncResultRecorder interface {
	RecordDrain(ctx context.Context, record DrainRecord) error
	Close() error
}
