package domain

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=remote_store.go -destination=remote_store_mock.go -package=domain

// RemoteStore is the eventually consistent remote record store. SaveBatch
// returns a transport error for the whole batch, or one SaveResult per
// submitted event. There is no atomicity across the batch.
type RemoteStore interface {
	SaveBatch(ctx context.Context, events []Event) ([]SaveResult, error)
	DeleteAll(ctx context.Context) error
	Fetch(ctx context.Context, id uuid.UUID) (*Event, error)
}
