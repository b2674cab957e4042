package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/taskqueue"
)

// TaskHandleKey holds the names of the reminder tasks that may still be live,
// as a JSON array.
const TaskHandleKey = "scheduled_notification_task"

// Scheduler implements domain.NotificationScheduler on a task queue. Task
// handles are persisted so that a restarted process can still cancel them.
// A handle is dropped only after its task was deleted, so a failed cancel is
// retried by the next one. A nil queue disables delivery.
type Scheduler struct {
	queue     taskqueue.TaskQueue
	store     domain.KVStore
	targetURL string
}

func NewScheduler(queue taskqueue.TaskQueue, store domain.KVStore, targetURL string) *Scheduler {
	return &Scheduler{
		queue:     queue,
		store:     store,
		targetURL: targetURL,
	}
}

// CancelAll deletes every tracked task. Handles whose deletion failed stay
// tracked and the joined errors are returned.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	names, err := s.loadHandles(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	var (
		kept []string
		errs []error
	)
	for _, name := range names {
		if s.queue == nil {
			kept = append(kept, name)
			continue
		}
		if err := s.queue.DeleteTask(ctx, name); err != nil {
			kept = append(kept, name)
			errs = append(errs, fmt.Errorf("failed to delete notification task %s: %w", name, err))
		}
	}

	if err := s.saveHandles(ctx, kept); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Scheduler) ScheduleOneShot(ctx context.Context, at time.Time, title, body string) error {
	if s.queue == nil {
		slog.DebugContext(ctx, "task queue disabled, notification not scheduled",
			slog.Time("at", at),
		)
		return nil
	}

	names, err := s.loadHandles(ctx)
	if err != nil {
		return err
	}

	resp, err := s.queue.RegisterTask(ctx, &taskqueue.Task{
		ID:         "reminder-" + uuid.NewString(),
		ScheduleAt: at,
		TargetURL:  s.targetURL,
		Kind:       taskqueue.TaskKindReminder,
		Title:      title,
		Body:       body,
		DueAt:      at,
	})
	if err != nil {
		return fmt.Errorf("failed to register notification task: %w", err)
	}

	if err := s.saveHandles(ctx, append(names, resp.Name)); err != nil {
		return err
	}

	slog.InfoContext(ctx, "notification scheduled",
		slog.String("task_name", resp.Name),
		slog.Int("tracked_tasks", len(names)+1),
		slog.Time("at", at),
	)
	return nil
}

// loadHandles also accepts a bare task name written by older versions.
func (s *Scheduler) loadHandles(ctx context.Context) ([]string, error) {
	raw, err := s.store.Get(ctx, TaskHandleKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notification handles: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return []string{string(raw)}, nil
	}
	return names, nil
}

func (s *Scheduler) saveHandles(ctx context.Context, names []string) error {
	if len(names) == 0 {
		if err := s.store.Delete(ctx, TaskHandleKey); err != nil {
			return fmt.Errorf("failed to clear notification handles: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode notification handles: %w", err)
	}
	if err := s.store.Set(ctx, TaskHandleKey, raw); err != nil {
		return fmt.Errorf("failed to persist notification handles: %w", err)
	}
	return nil
}
