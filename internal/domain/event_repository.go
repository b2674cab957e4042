package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=event_repository.go -destination=event_repository_mock.go -package=domain

// EventRepository is the append-only local history of logged events.
type EventRepository interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
	ListSince(ctx context.Context, since time.Time) ([]Event, error)
	Clear(ctx context.Context) error
}
