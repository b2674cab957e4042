package domain

// TimerState is derived from the deadline, the quiet window and the current
// time. It is never persisted.
type TimerState string

const (
	TimerStateSleeping TimerState = "sleeping"
	TimerStateActive   TimerState = "active"
	TimerStateOverdue  TimerState = "overdue"
)

func (s TimerState) String() string {
	return string(s)
}

func (s TimerState) IsOverdue() bool {
	return s == TimerStateOverdue
}

func (s TimerState) IsSleeping() bool {
	return s == TimerStateSleeping
}
