package timer

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

func TestEvaluate(t *testing.T) {
	night := Settings{Interval: DefaultInterval, QuietWindow: domain.DefaultQuietWindow()}
	awake := Settings{Interval: DefaultInterval, QuietWindow: domain.QuietWindow{Enabled: false, StartHour: 20, EndHour: 8}}

	tests := []struct {
		name        string
		now         time.Time
		deadline    time.Time
		settings    Settings
		wantState   domain.TimerState
		wantText    string
		wantCompact string
	}{
		{
			name:        "active",
			now:         at(10, 10, 0),
			deadline:    at(10, 12, 30).Add(15 * time.Second),
			settings:    night,
			wantState:   domain.TimerStateActive,
			wantText:    "2:30:15",
			wantCompact: "2h 30m",
		},
		{
			name:        "active under an hour",
			now:         at(10, 10, 0),
			deadline:    at(10, 10, 5),
			settings:    night,
			wantState:   domain.TimerStateActive,
			wantText:    "0:05:00",
			wantCompact: "5m",
		},
		{
			name:        "overdue at deadline",
			now:         at(10, 12, 30),
			deadline:    at(10, 12, 30),
			settings:    night,
			wantState:   domain.TimerStateOverdue,
			wantText:    OverdueText,
			wantCompact: OverdueCompactText,
		},
		{
			name:        "sleeping hides overdue",
			now:         at(10, 23, 0),
			deadline:    at(10, 21, 0),
			settings:    night,
			wantState:   domain.TimerStateSleeping,
			wantText:    SleepingText,
			wantCompact: SleepingText,
		},
		{
			name:        "sleeping while active",
			now:         at(11, 2, 0),
			deadline:    at(11, 9, 0),
			settings:    night,
			wantState:   domain.TimerStateSleeping,
			wantText:    SleepingText,
			wantCompact: SleepingText,
		},
		{
			name:        "disabled window never sleeps",
			now:         at(10, 23, 0),
			deadline:    at(10, 21, 0),
			settings:    awake,
			wantState:   domain.TimerStateOverdue,
			wantText:    OverdueText,
			wantCompact: OverdueCompactText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.now, tt.deadline, tt.settings)
			if got.State != tt.wantState {
				t.Errorf("State = %v, want %v", got.State, tt.wantState)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.CompactText != tt.wantCompact {
				t.Errorf("CompactText = %q, want %q", got.CompactText, tt.wantCompact)
			}
			if !got.Deadline.Equal(tt.deadline) {
				t.Errorf("Deadline = %v, want %v", got.Deadline, tt.deadline)
			}
		})
	}
}

func TestEvaluateProgress(t *testing.T) {
	settings := Settings{Interval: 2 * time.Hour, QuietWindow: domain.QuietWindow{}}
	now := at(10, 10, 0)

	got := Evaluate(now, now.Add(time.Hour), settings)
	if got.Progress != 0.5 {
		t.Errorf("Progress = %v, want 0.5", got.Progress)
	}

	got = Evaluate(now, now.Add(3*time.Hour), settings)
	if got.Progress != 1 {
		t.Errorf("Progress = %v, want 1", got.Progress)
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{-time.Minute, "0:00:00"},
		{999 * time.Millisecond, "0:00:00"},
		{59*time.Minute + 59*time.Second, "0:59:59"},
		{10*time.Hour + 2*time.Minute + 3*time.Second, "10:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatCountdown(tt.in); got != tt.want {
				t.Errorf("FormatCountdown(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{59*time.Minute + 59*time.Second, "59m"},
		{time.Hour, "1h 0m"},
		{2*time.Hour + 30*time.Minute, "2h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatCompact(tt.in); got != tt.want {
				t.Errorf("FormatCompact(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
