package domain

import "time"

// QuietWindow is an hour range during which the reminder countdown is paused.
// StartHour > EndHour wraps past midnight. StartHour == EndHour disables the
// window regardless of Enabled.
type QuietWindow struct {
	Enabled   bool `json:"enabled"`
	StartHour int  `json:"start_hour"`
	EndHour   int  `json:"end_hour"`
}

func DefaultQuietWindow() QuietWindow {
	return QuietWindow{
		Enabled:   true,
		StartHour: 20,
		EndHour:   8,
	}
}

func (w QuietWindow) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 {
		return ErrInvalidQuietWindow
	}
	return nil
}

func (w QuietWindow) IsDegenerate() bool {
	return w.StartHour == w.EndHour
}

// IsActive reports whether the window takes part in any computation.
func (w QuietWindow) IsActive() bool {
	return w.Enabled && !w.IsDegenerate()
}

// Length is the wall-clock span of one occurrence of the window.
func (w QuietWindow) Length() time.Duration {
	if !w.IsActive() {
		return 0
	}
	hours := (w.EndHour - w.StartHour + 24) % 24
	return time.Duration(hours) * time.Hour
}

// Contains reports whether t's hour of day falls inside [StartHour, EndHour).
func (w QuietWindow) Contains(t time.Time) bool {
	if !w.IsActive() {
		return false
	}

	hour := t.Hour()
	if w.StartHour < w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	return hour >= w.StartHour || hour < w.EndHour
}
