package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

const DefaultRecentDays = 7

// EventQueue is the outbox that delivers logged events to the remote store.
type EventQueue interface {
	Enqueue(ctx context.Context, event domain.Event) (int, error)
	Clear(ctx context.Context) error
}

// TimerResetter restarts the countdown.
type TimerResetter interface {
	Reset(ctx context.Context) (time.Time, error)
}

type Clock interface {
	Now() time.Time
}

type Config struct {
	RecentDays int
}

// Service records care events locally and hands them to the sync queue.
type Service struct {
	clock  Clock
	events domain.EventRepository
	queue  EventQueue
	remote domain.RemoteStore
	timer  TimerResetter
	cfg    Config
}

func NewService(
	clock Clock,
	events domain.EventRepository,
	queue EventQueue,
	remote domain.RemoteStore,
	timer TimerResetter,
	cfg Config,
) *Service {
	if cfg.RecentDays <= 0 {
		cfg.RecentDays = DefaultRecentDays
	}
	return &Service{
		clock:  clock,
		events: events,
		queue:  queue,
		remote: remote,
		timer:  timer,
		cfg:    cfg,
	}
}

// LogResult reports what happened to a logged event. Deadline is set only
// when the event restarted the timer.
type LogResult struct {
	Event        domain.Event
	PendingCount int
	Deadline     *time.Time
}

// Log stores a new event, queues it for upload and, for pee events, resets
// the timer. The event is kept locally even when queueing fails.
func (s *Service) Log(ctx context.Context, kind domain.EventKind, extra *string) (*LogResult, error) {
	if !kind.IsValid() {
		return nil, domain.ErrInvalidEventKind
	}

	event := domain.NewEvent(kind, s.clock.Now(), extra)
	if err := s.events.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	result := &LogResult{Event: event}

	var errs []error
	n, err := s.queue.Enqueue(ctx, event)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to queue event: %w", err))
	}
	result.PendingCount = n

	if kind == domain.EventKindPee {
		deadline, err := s.timer.Reset(ctx)
		result.Deadline = &deadline
		if err != nil {
			errs = append(errs, err)
		}
	}

	slog.InfoContext(ctx, "event logged",
		slog.String("event_id", event.ID.String()),
		slog.String("kind", kind.String()),
		slog.Int("pending_count", n),
	)

	return result, errors.Join(errs...)
}

// Recent returns the events of the last RecentDays days, newest first.
func (s *Service) Recent(ctx context.Context) ([]domain.Event, error) {
	since := s.clock.Now().AddDate(0, 0, -s.cfg.RecentDays)

	events, err := s.events.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	return events, nil
}

func (s *Service) All(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Clear removes local history and pending uploads, then deletes every remote
// record. Local data is cleared even when the remote call fails.
func (s *Service) Clear(ctx context.Context) error {
	var errs []error

	if err := s.queue.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear pending events: %w", err))
	}
	if err := s.events.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear local history: %w", err))
	}
	if err := s.remote.DeleteAll(ctx); err != nil {
		slog.WarnContext(ctx, "failed to delete remote records",
			slog.String("event", "history.remote.delete_failed"),
			slog.String("error", err.Error()),
		)
		errs = append(errs, fmt.Errorf("failed to delete remote records: %w", err))
	}

	if len(errs) == 0 {
		slog.InfoContext(ctx, "history cleared")
	}
	return errors.Join(errs...)
}
