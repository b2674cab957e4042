package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

const (
	keyTargetDeadline = "targetVoidTime"
	keyInterval       = "timerIntervalMinutes"
	keyQuietEnabled   = "isSleepEnabled"
	keyQuietStartHour = "sleepStartHour"
	keyQuietEndHour   = "sleepEndHour"

	DefaultInterval = 150 * time.Minute
)

// Settings is the user-tunable part of the deadline state.
type Settings struct {
	Interval    time.Duration
	QuietWindow domain.QuietWindow
}

func DefaultSettings() Settings {
	return Settings{
		Interval:    DefaultInterval,
		QuietWindow: domain.DefaultQuietWindow(),
	}
}

func (s Settings) Validate() error {
	if s.Interval <= 0 {
		return domain.ErrInvalidInterval
	}
	return s.QuietWindow.Validate()
}

// SettingsStore maps Settings and the target deadline onto scalar keys of a
// KVStore. Missing or unreadable values fall back to the configured defaults.
type SettingsStore struct {
	store    domain.KVStore
	defaults Settings
}

func NewSettingsStore(store domain.KVStore, defaults Settings) *SettingsStore {
	return &SettingsStore{
		store:    store,
		defaults: defaults,
	}
}

func (s *SettingsStore) Defaults() Settings {
	return s.defaults
}

// Load returns the persisted settings. The returned value is always usable;
// a non-nil error reports that the store could not be read at all.
func (s *SettingsStore) Load(ctx context.Context) (Settings, error) {
	settings := s.defaults
	var errs []error

	if minutes, err := s.loadInt(ctx, keyInterval); err == nil {
		if minutes > 0 {
			settings.Interval = time.Duration(minutes) * time.Minute
		}
	} else {
		errs = append(errs, err)
	}

	if enabled, err := s.loadBool(ctx, keyQuietEnabled); err == nil {
		settings.QuietWindow.Enabled = enabled
	} else {
		errs = append(errs, err)
	}

	if hour, err := s.loadInt(ctx, keyQuietStartHour); err == nil {
		settings.QuietWindow.StartHour = hour
	} else {
		errs = append(errs, err)
	}

	if hour, err := s.loadInt(ctx, keyQuietEndHour); err == nil {
		settings.QuietWindow.EndHour = hour
	} else {
		errs = append(errs, err)
	}

	if settings.QuietWindow.Validate() != nil {
		slog.WarnContext(ctx, "persisted quiet window out of range, using defaults",
			slog.String("event", "timer.settings.invalid"),
			slog.Int("start_hour", settings.QuietWindow.StartHour),
			slog.Int("end_hour", settings.QuietWindow.EndHour),
		)
		settings.QuietWindow = s.defaults.QuietWindow
	}

	return settings, storageError(errs)
}

func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	minutes := int(settings.Interval / time.Minute)

	return errors.Join(
		s.store.Set(ctx, keyInterval, []byte(strconv.Itoa(minutes))),
		s.store.Set(ctx, keyQuietEnabled, []byte(strconv.FormatBool(settings.QuietWindow.Enabled))),
		s.store.Set(ctx, keyQuietStartHour, []byte(strconv.Itoa(settings.QuietWindow.StartHour))),
		s.store.Set(ctx, keyQuietEndHour, []byte(strconv.Itoa(settings.QuietWindow.EndHour))),
	)
}

// LoadDeadline returns domain.ErrKeyNotFound when no deadline is stored or
// the stored value cannot be parsed.
func (s *SettingsStore) LoadDeadline(ctx context.Context) (time.Time, error) {
	raw, err := s.store.Get(ctx, keyTargetDeadline)
	if err != nil {
		return time.Time{}, err
	}

	deadline, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		slog.WarnContext(ctx, "persisted deadline is corrupt",
			slog.String("event", "timer.deadline.corrupt"),
			slog.String("value", string(raw)),
			slog.String("error", err.Error()),
		)
		return time.Time{}, domain.ErrKeyNotFound
	}
	return deadline, nil
}

func (s *SettingsStore) SaveDeadline(ctx context.Context, deadline time.Time) error {
	if err := s.store.Set(ctx, keyTargetDeadline, []byte(deadline.Format(time.RFC3339Nano))); err != nil {
		return fmt.Errorf("failed to save deadline: %w", err)
	}
	return nil
}

// loadInt and loadBool return domain.ErrKeyNotFound for absent or corrupt
// values so that callers keep the default.
func (s *SettingsStore) loadInt(ctx context.Context, key string) (int, error) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		warnCorrupt(ctx, key, raw, err)
		return 0, domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *SettingsStore) loadBool(ctx context.Context, key string) (bool, error) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		warnCorrupt(ctx, key, raw, err)
		return false, domain.ErrKeyNotFound
	}
	return v, nil
}

func warnCorrupt(ctx context.Context, key string, raw []byte, err error) {
	slog.WarnContext(ctx, "persisted setting is corrupt, using default",
		slog.String("event", "timer.settings.corrupt"),
		slog.String("key", key),
		slog.String("value", string(raw)),
		slog.String("error", err.Error()),
	)
}

// storageError drops not-found results and joins whatever is left.
func storageError(errs []error) error {
	var failures []error
	for _, err := range errs {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}
