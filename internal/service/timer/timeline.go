package timer

import "time"

const (
	timelineLength = 60
	timelineStep   = time.Minute
)

// TimelineEntry is one precomputed minute of the compact display.
type TimelineEntry struct {
	At      time.Time
	Text    string
	Overdue bool
}

// BuildTimeline renders one entry per minute starting at from. Rendering
// stops after the first overdue entry since every later one would repeat it.
func BuildTimeline(from, deadline time.Time, settings Settings) []TimelineEntry {
	entries := make([]TimelineEntry, 0, timelineLength)
	for i := range timelineLength {
		at := from.Add(time.Duration(i) * timelineStep)
		d := Evaluate(at, deadline, settings)

		entries = append(entries, TimelineEntry{
			At:      at,
			Text:    d.CompactText,
			Overdue: d.State.IsOverdue(),
		})
		if d.State.IsOverdue() {
			break
		}
	}
	return entries
}
