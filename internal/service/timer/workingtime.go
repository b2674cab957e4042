package timer

import (
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

// AddWorkingTime returns the instant reached from start after d has elapsed
// outside the quiet window. Wall-clock time inside the window passes without
// consuming d. Hour boundaries are computed in start's location.
func AddWorkingTime(d time.Duration, start time.Time, window domain.QuietWindow) time.Time {
	if !window.IsActive() {
		return start.Add(d)
	}

	current := start
	remaining := d
	limit := iterationBound(d, window)

	for range limit {
		if window.Contains(current) {
			current = nextHour(current, window.EndHour)
			continue
		}

		boundary := nextHour(current, window.StartHour)
		gap := boundary.Sub(current)
		if remaining <= gap {
			return current.Add(remaining)
		}

		remaining -= gap
		current = boundary
	}

	slog.Warn("working time iteration bound reached",
		slog.String("event", "timer.working_time.bound"),
		slog.Duration("duration", d),
		slog.Time("start", start),
		slog.Time("current", current),
		slog.Int("bound", limit),
	)
	return current
}

// iterationBound is the number of steps AddWorkingTime can need. Every
// outside step either returns or consumes a whole active span (all but the
// first), and an inside step is always followed by an outside step. A DST
// transition can shorten one active span by an hour.
func iterationBound(d time.Duration, window domain.QuietWindow) int {
	span := 24*time.Hour - window.Length() - time.Hour
	if span < time.Hour {
		span = time.Hour
	}
	if d < 0 {
		d = 0
	}
	return 2*int(d/span) + 4
}

// nextHour returns the first hour:00:00 strictly after t. An hour skipped by
// a DST transition resolves to the start of the following hour. An hour
// repeated by a DST transition has two starts; the earlier one that is still
// after t wins.
func nextHour(t time.Time, hour int) time.Time {
	candidate := hourStart(t.Year(), t.Month(), t.Day(), hour, t.Location())
	if candidate.After(t) {
		return candidate
	}
	if repeat := candidate.Add(time.Hour); isHourStart(repeat, hour) && repeat.After(t) {
		return repeat
	}
	return hourStart(t.Year(), t.Month(), t.Day()+1, hour, t.Location())
}

// hourStart returns the earliest instant of the given wall-clock hour on that
// day. time.Date picks either occurrence of a repeated hour depending on the
// zone, so the earlier one is looked up explicitly.
func hourStart(year int, month time.Month, day, hour int, loc *time.Location) time.Time {
	start := time.Date(year, month, day, hour, 0, 0, 0, loc)
	if start.Hour() != hour {
		return time.Date(year, month, day, hour+1, 0, 0, 0, loc)
	}
	if earlier := start.Add(-time.Hour); isHourStart(earlier, hour) && earlier.YearDay() == start.YearDay() {
		return earlier
	}
	return start
}

func isHourStart(t time.Time, hour int) bool {
	return t.Hour() == hour && t.Minute() == 0 && t.Second() == 0
}
