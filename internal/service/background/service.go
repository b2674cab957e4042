package background

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

const DefaultWakeInterval = 15 * time.Minute

// Drainer uploads pending events.
type Drainer interface {
	Drain(ctx context.Context) error
}

type Clock interface {
	Now() time.Time
}

type Config struct {
	WakeInterval time.Duration
}

// Service handles background wakes: each wake drains the sync queue and asks
// the platform for the next one.
type Service struct {
	clock   Clock
	drainer Drainer
	waker   domain.WakeScheduler
	cfg     Config
}

// NewService returns a Service. waker may be nil when wakes are driven by Run.
func NewService(clock Clock, drainer Drainer, waker domain.WakeScheduler, cfg Config) *Service {
	if cfg.WakeInterval <= 0 {
		cfg.WakeInterval = DefaultWakeInterval
	}
	return &Service{
		clock:   clock,
		drainer: drainer,
		waker:   waker,
		cfg:     cfg,
	}
}

// WakeResult acknowledges a background wake.
type WakeResult struct {
	NextWake  time.Time
	DrainErr  error
	Scheduled bool
}

// HandleWake drains the queue and schedules the next wake. The next wake is
// requested even when the drain fails so that pending events are retried.
// The returned error reports a scheduling failure only.
func (s *Service) HandleWake(ctx context.Context) (*WakeResult, error) {
	result := &WakeResult{
		NextWake: s.clock.Now().Add(s.cfg.WakeInterval),
	}

	if err := s.drainer.Drain(ctx); err != nil {
		result.DrainErr = err
		level := slog.LevelWarn
		if errors.Is(err, domain.ErrPartialBatchFailure) {
			level = slog.LevelInfo
		}
		slog.Log(ctx, level, "background drain incomplete",
			slog.String("event", "background.drain.failed"),
			slog.String("error", err.Error()),
		)
	}

	if s.waker == nil {
		return result, nil
	}

	if err := s.waker.ScheduleNextWake(ctx, result.NextWake); err != nil {
		return result, fmt.Errorf("failed to schedule next wake: %w", err)
	}
	result.Scheduled = true

	slog.InfoContext(ctx, "background wake handled",
		slog.Time("next_wake", result.NextWake),
		slog.Bool("drained", result.DrainErr == nil),
	)
	return result, nil
}

// Run calls HandleWake every WakeInterval until ctx is done. It is the
// in-process trigger used when no task queue delivers wakes.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.WakeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.HandleWake(ctx); err != nil {
				slog.WarnContext(ctx, "background wake failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
