package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

const PendingKey = "pending_sync_events"

// editFunc derives the new pending list from the current one. It reports
// false when nothing changed. It may run more than once per update.
type editFunc func(events []domain.Event) ([]domain.Event, bool)

// loadLocked reads the pending list. A missing blob is an empty list and a
// corrupt one is logged and treated as empty.
func (q *Queue) loadLocked(ctx context.Context) ([]domain.Event, error) {
	raw, err := q.store.Get(ctx, PendingKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending events: %w", err)
	}
	return decodePending(ctx, raw), nil
}

func (q *Queue) saveLocked(ctx context.Context, events []domain.Event) error {
	raw, err := encodePending(events)
	if err != nil {
		return err
	}

	if err := q.store.Set(ctx, PendingKey, raw); err != nil {
		return fmt.Errorf("failed to save pending events: %w", err)
	}
	return nil
}

// updateLocked applies edit to the persisted list and returns the result.
// Stores implementing domain.KVUpdater apply it atomically, so instances
// sharing a redis namespace never overwrite each other's changes.
func (q *Queue) updateLocked(ctx context.Context, edit editFunc) ([]domain.Event, error) {
	updater, ok := q.store.(domain.KVUpdater)
	if !ok {
		events, err := q.loadLocked(ctx)
		if err != nil {
			return nil, err
		}
		next, changed := edit(events)
		if changed {
			if err := q.saveLocked(ctx, next); err != nil {
				return nil, err
			}
		}
		return next, nil
	}

	var result []domain.Event
	err := updater.Update(ctx, PendingKey, func(current []byte) ([]byte, error) {
		var events []domain.Event
		if current != nil {
			events = decodePending(ctx, current)
		}

		next, changed := edit(events)
		result = next
		if !changed {
			return nil, nil
		}
		return encodePending(next)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update pending events: %w", err)
	}
	return result, nil
}

func decodePending(ctx context.Context, raw []byte) []domain.Event {
	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		slog.WarnContext(ctx, "pending events blob is corrupt, treating as empty",
			slog.String("event", "syncqueue.pending.corrupt"),
			slog.Int("size", len(raw)),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return events
}

func encodePending(events []domain.Event) ([]byte, error) {
	if events == nil {
		events = []domain.Event{}
	}

	raw, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pending events: %w", err)
	}
	return raw, nil
}
