package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue schedules HTTP callbacks at a future instant.
type TaskQueue interface {
	RegisterTask(ctx context.Context, task *Task) (*TaskResponse, error)
	DeleteTask(ctx context.Context, name string) error
}
