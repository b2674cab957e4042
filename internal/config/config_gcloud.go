//go:build gcloud

package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTaskQueueIncomplete is returned when Cloud Tasks cannot be addressed.
var ErrTaskQueueIncomplete = errors.New("task queue configuration incomplete")

// Validate requires a fully addressed Cloud Tasks queue. Reminders and sync
// wakes both go through it, so there is no disabled mode on gcloud.
func (c *TaskQueueConfig) Validate() error {
	required := []struct {
		env   string
		value string
	}{
		{"GCLOUD_PROJECT_ID", c.GCloudProjectID},
		{"GCLOUD_LOCATION_ID", c.GCloudLocationID},
		{"GCLOUD_QUEUE_ID", c.GCloudQueueID},
		{"NOTIFICATION_TARGET_URL or GCLOUD_TARGET_URL", c.NotificationTargetURL},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrTaskQueueIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
