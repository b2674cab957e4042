package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=notification.go -destination=notification_mock.go -package=domain

// NotificationScheduler delivers a single local reminder at a future instant.
type NotificationScheduler interface {
	CancelAll(ctx context.Context) error
	ScheduleOneShot(ctx context.Context, at time.Time, title, body string) error
}

// WakeScheduler asks the platform to invoke the background handler later.
type WakeScheduler interface {
	ScheduleNextWake(ctx context.Context, at time.Time) error
}

// DisplayRefresher asks companion surfaces to recompute their text from the
// persisted state. Implementations must not block on delivery.
type DisplayRefresher interface {
	RefreshTimelines(ctx context.Context)
}

// OverdueAlerter is signalled once each time the reminder becomes overdue.
type OverdueAlerter interface {
	Alert(ctx context.Context, deadline time.Time)
}
