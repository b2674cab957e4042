package timer

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in a fixed location. Hour-of-day
// decisions for the quiet window are made in that location.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{loc: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
