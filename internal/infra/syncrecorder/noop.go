package syncrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.SyncResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordDrain(_ context.Context, _ domain.DrainRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
