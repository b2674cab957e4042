package wake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-void-timer/internal/infra/taskqueue"
)

// Scheduler implements domain.WakeScheduler by registering a task that calls
// back the sync wake endpoint.
type Scheduler struct {
	queue     taskqueue.TaskQueue
	targetURL string
}

func NewScheduler(queue taskqueue.TaskQueue, targetURL string) *Scheduler {
	return &Scheduler{
		queue:     queue,
		targetURL: targetURL,
	}
}

func (s *Scheduler) ScheduleNextWake(ctx context.Context, at time.Time) error {
	resp, err := s.queue.RegisterTask(ctx, &taskqueue.Task{
		ID:         "sync-wake-" + uuid.NewString(),
		ScheduleAt: at,
		TargetURL:  s.targetURL,
		Kind:       taskqueue.TaskKindSyncWake,
		DueAt:      at,
	})
	if err != nil {
		return fmt.Errorf("failed to register wake task: %w", err)
	}

	slog.DebugContext(ctx, "next sync wake scheduled",
		slog.String("task_name", resp.Name),
		slog.Time("at", at),
	)
	return nil
}
