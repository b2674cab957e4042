package timer

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

const (
	SleepingText       = "Zzz..."
	OverdueText        = "CHECK IN"
	OverdueCompactText = "CHECK IN!"
)

// Display is the rendered view of the deadline at one instant.
type Display struct {
	State       domain.TimerState
	Text        string
	CompactText string
	Deadline    time.Time
	Remaining   time.Duration
	Progress    float64
}

// Evaluate classifies now against deadline and renders it. It has no side
// effects. Sleeping takes precedence over Overdue.
func Evaluate(now, deadline time.Time, settings Settings) Display {
	d := Display{Deadline: deadline}

	switch {
	case settings.QuietWindow.Contains(now):
		d.State = domain.TimerStateSleeping
		d.Text = SleepingText
		d.CompactText = SleepingText
	case !now.Before(deadline):
		d.State = domain.TimerStateOverdue
		d.Text = OverdueText
		d.CompactText = OverdueCompactText
	default:
		remaining := deadline.Sub(now)
		d.State = domain.TimerStateActive
		d.Remaining = remaining
		d.Text = FormatCountdown(remaining)
		d.CompactText = FormatCompact(remaining)
		d.Progress = progress(remaining, settings.Interval)
	}

	return d
}

// FormatCountdown renders d as H:MM:SS, truncated to whole seconds.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}

// FormatCompact renders d as "Hh Mm", or "Mm" below one hour.
func FormatCompact(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	hours, minutes := total/60, total%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func progress(remaining, interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	p := float64(remaining) / float64(interval)
	return min(max(p, 0), 1)
}
