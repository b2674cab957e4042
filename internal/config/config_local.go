//go:build !gcloud

package config

// Validate accepts any local task queue configuration; an empty
// PRIMIND_TASKS_URL disables the queue.
func (c *TaskQueueConfig) Validate() error {
	return nil
}
