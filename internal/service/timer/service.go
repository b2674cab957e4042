package timer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/metrics"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/tracing"
)

const (
	DefaultSnooze = 10 * time.Minute

	tickInterval = time.Second

	notificationTitle = "Time to check in"
	notificationBody  = "Your void timer is due."
)

const (
	opReset          = "reset"
	opSnooze         = "snooze"
	opSetInterval    = "set_interval"
	opSetQuietWindow = "set_quiet_window"
	opUpdateSettings = "update_settings"
)

type Config struct {
	Snooze      time.Duration
	TickEnabled bool
}

// Service owns the persisted deadline. Mutations are serialized by mu. When
// the store cannot be read, the last known values are used.
type Service struct {
	mu sync.Mutex

	clock     Clock
	settings  *SettingsStore
	notifier  domain.NotificationScheduler
	refresher domain.DisplayRefresher
	alerter   domain.OverdueAlerter
	metrics   *metrics.TimerMetrics
	cfg       Config

	lastDeadline time.Time
	lastSettings *Settings
	wasOverdue   bool
}

func NewService(
	clock Clock,
	settings *SettingsStore,
	notifier domain.NotificationScheduler,
	refresher domain.DisplayRefresher,
	alerter domain.OverdueAlerter,
	timerMetrics *metrics.TimerMetrics,
	cfg Config,
) *Service {
	if cfg.Snooze <= 0 {
		cfg.Snooze = DefaultSnooze
	}
	return &Service{
		clock:     clock,
		settings:  settings,
		notifier:  notifier,
		refresher: refresher,
		alerter:   alerter,
		metrics:   timerMetrics,
		cfg:       cfg,
	}
}

// Reset restarts the countdown from now. The returned error reports a
// persistence failure; the new deadline is in effect either way.
func (s *Service) Reset(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	settings := s.loadSettingsLocked(ctx)
	return s.commitLocked(ctx, opReset, AddWorkingTime(settings.Interval, now, settings.QuietWindow))
}

// Snooze extends an active deadline, or restarts from now when the deadline
// has already passed.
func (s *Service) Snooze(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	settings := s.loadSettingsLocked(ctx)
	current := s.loadDeadlineLocked(ctx, now, settings)

	from := current
	if !now.Before(current) {
		from = now
	}
	return s.commitLocked(ctx, opSnooze, AddWorkingTime(s.cfg.Snooze, from, settings.QuietWindow))
}

func (s *Service) SetInterval(ctx context.Context, minutes int) (time.Time, error) {
	if minutes <= 0 {
		return time.Time{}, domain.ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.loadSettingsLocked(ctx)
	settings.Interval = time.Duration(minutes) * time.Minute
	return s.applySettingsLocked(ctx, opSetInterval, settings)
}

func (s *Service) SetQuietWindow(ctx context.Context, enabled bool, startHour, endHour int) (time.Time, error) {
	window := domain.QuietWindow{
		Enabled:   enabled,
		StartHour: startHour,
		EndHour:   endHour,
	}
	if err := window.Validate(); err != nil {
		return time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.loadSettingsLocked(ctx)
	settings.QuietWindow = window
	return s.applySettingsLocked(ctx, opSetQuietWindow, settings)
}

// UpdateSettings replaces interval and quiet window together and resets once.
func (s *Service) UpdateSettings(ctx context.Context, settings Settings) (time.Time, error) {
	if err := settings.Validate(); err != nil {
		return time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.applySettingsLocked(ctx, opUpdateSettings, settings)
}

func (s *Service) Settings(ctx context.Context) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadSettingsLocked(ctx)
}

// Snapshot renders the persisted deadline at now without firing alerts.
func (s *Service) Snapshot(ctx context.Context, now time.Time) Display {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.loadSettingsLocked(ctx)
	return Evaluate(now, s.loadDeadlineLocked(ctx, now, settings), settings)
}

func (s *Service) Timeline(ctx context.Context, from time.Time) []TimelineEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.loadSettingsLocked(ctx)
	return BuildTimeline(from, s.loadDeadlineLocked(ctx, from, settings), settings)
}

// Tick renders the current display and fires the overdue alert on the
// transition into Overdue. Repeated ticks at the same instant render the
// same display and alert at most once.
func (s *Service) Tick(ctx context.Context) Display {
	display, crossed := s.observe(ctx, s.clock.Now())
	if crossed {
		slog.InfoContext(ctx, "deadline passed",
			slog.Time("deadline", display.Deadline),
		)
		s.alerter.Alert(ctx, display.Deadline)
		if s.metrics != nil {
			s.metrics.RecordOverdueAlert(ctx)
		}
	}
	return display
}

func (s *Service) observe(ctx context.Context, now time.Time) (Display, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.loadSettingsLocked(ctx)
	display := Evaluate(now, s.loadDeadlineLocked(ctx, now, settings), settings)

	overdue := display.State.IsOverdue()
	crossed := overdue && !s.wasOverdue
	s.wasOverdue = overdue
	return display, crossed
}

// Run ticks every second until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.TickEnabled {
		return
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

func (s *Service) applySettingsLocked(ctx context.Context, op string, settings Settings) (time.Time, error) {
	saveErr := s.settings.Save(ctx, settings)
	if saveErr != nil {
		slog.WarnContext(ctx, "failed to persist timer settings",
			slog.String("event", "timer.settings.save_failed"),
			slog.String("error", saveErr.Error()),
		)
	}
	s.lastSettings = &settings

	deadline, err := s.commitLocked(ctx, op, AddWorkingTime(settings.Interval, s.clock.Now(), settings.QuietWindow))
	return deadline, errors.Join(saveErr, err)
}

// commitLocked persists deadline, replaces the scheduled notification and
// signals the display. Notification and display failures are logged only.
func (s *Service) commitLocked(ctx context.Context, op string, deadline time.Time) (time.Time, error) {
	ctx, span := tracing.StartDeadlineChangeSpan(ctx, op)
	defer span.End()

	s.lastDeadline = deadline

	err := s.settings.SaveDeadline(ctx, deadline)
	if err != nil {
		slog.WarnContext(ctx, "failed to persist deadline",
			slog.String("event", "timer.deadline.save_failed"),
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
	}

	s.rescheduleLocked(ctx, deadline)
	s.refresher.RefreshTimelines(ctx)

	if s.metrics != nil {
		s.metrics.RecordDeadlineChange(ctx, op)
	}

	slog.InfoContext(ctx, "deadline updated",
		slog.String("operation", op),
		slog.Time("deadline", deadline),
	)

	tracing.RecordDeadline(span, deadline, err)
	return deadline, err
}

func (s *Service) rescheduleLocked(ctx context.Context, deadline time.Time) {
	if err := s.notifier.CancelAll(ctx); err != nil {
		slog.WarnContext(ctx, "failed to cancel scheduled notification",
			slog.String("event", "timer.notification.cancel_failed"),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordScheduleError(ctx, "cancel")
		}
	}

	if err := s.notifier.ScheduleOneShot(ctx, deadline, notificationTitle, notificationBody); err != nil {
		slog.WarnContext(ctx, "failed to schedule notification",
			slog.String("event", "timer.notification.schedule_failed"),
			slog.Time("deadline", deadline),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordScheduleError(ctx, "schedule")
		}
	}
}

func (s *Service) loadSettingsLocked(ctx context.Context) Settings {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to load timer settings",
			slog.String("event", "timer.settings.load_failed"),
			slog.String("error", err.Error()),
		)
		if s.lastSettings != nil {
			return *s.lastSettings
		}
		return settings
	}
	s.lastSettings = &settings
	return settings
}

// loadDeadlineLocked returns the persisted deadline in now's location,
// initializing and persisting it when absent.
func (s *Service) loadDeadlineLocked(ctx context.Context, now time.Time, settings Settings) time.Time {
	deadline, err := s.settings.LoadDeadline(ctx)
	switch {
	case err == nil:
		s.lastDeadline = deadline.In(now.Location())
	case errors.Is(err, domain.ErrKeyNotFound):
		s.lastDeadline = AddWorkingTime(settings.Interval, now, settings.QuietWindow)
		if err := s.settings.SaveDeadline(ctx, s.lastDeadline); err != nil {
			slog.WarnContext(ctx, "failed to persist initial deadline",
				slog.String("event", "timer.deadline.save_failed"),
				slog.String("error", err.Error()),
			)
		}
	default:
		slog.WarnContext(ctx, "failed to load deadline",
			slog.String("event", "timer.deadline.load_failed"),
			slog.String("error", err.Error()),
		)
		if s.lastDeadline.IsZero() {
			s.lastDeadline = AddWorkingTime(settings.Interval, now, settings.QuietWindow)
		}
	}
	return s.lastDeadline
}
