package config

import (
	"errors"
	"time"

	"github.com/knadh/koanf/v2"
)

const (
	timezoneKey             = "timezone"
	timerIntervalMinutesKey = "timer_interval_minutes"
	timerSnoozeMinutesKey   = "timer_snooze_minutes"
	timerTickEnabledKey     = "timer_tick_enabled"
	quietWindowEnabledKey   = "quiet_window_enabled"
	quietWindowStartHourKey = "quiet_window_start_hour"
	quietWindowEndHourKey   = "quiet_window_end_hour"

	defaultIntervalMinutes      = 150
	defaultSnoozeMinutes        = 10
	defaultQuietWindowStartHour = 20
	defaultQuietWindowEndHour   = 8
)

// TimerConfig holds the defaults used until the user changes the persisted
// settings.
type TimerConfig struct {
	Location             *time.Location
	IntervalMinutes      int
	SnoozeMinutes        int
	TickEnabled          bool
	QuietWindowEnabled   bool
	QuietWindowStartHour int
	QuietWindowEndHour   int
}

func loadTimerConfig(k *koanf.Koanf) (*TimerConfig, error) {
	loc, err := loadLocation(k.String(timezoneKey))
	if err != nil {
		return nil, err
	}

	return &TimerConfig{
		Location:             loc,
		IntervalMinutes:      k.Int(timerIntervalMinutesKey),
		SnoozeMinutes:        k.Int(timerSnoozeMinutesKey),
		TickEnabled:          k.Bool(timerTickEnabledKey),
		QuietWindowEnabled:   k.Bool(quietWindowEnabledKey),
		QuietWindowStartHour: k.Int(quietWindowStartHourKey),
		QuietWindowEndHour:   k.Int(quietWindowEndHourKey),
	}, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Join(ErrInvalidTimezone, err)
	}
	return loc, nil
}

func (c *TimerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

func (c *TimerConfig) Snooze() time.Duration {
	return time.Duration(c.SnoozeMinutes) * time.Minute
}

func (c *TimerConfig) Validate() error {
	var errs []error

	if c.IntervalMinutes <= 0 {
		errs = append(errs, ErrInvalidInterval)
	}
	if !validHour(c.QuietWindowStartHour) || !validHour(c.QuietWindowEndHour) {
		errs = append(errs, ErrInvalidQuietWindow)
	}

	return errors.Join(errs...)
}

func validHour(h int) bool {
	return h >= 0 && h <= 23
}
