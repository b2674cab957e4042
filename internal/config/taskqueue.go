package config

import (
	"github.com/knadh/koanf/v2"
)

const (
	primindTasksURLKey       = "primind_tasks_url"
	taskQueueNameKey         = "task_queue_name"
	taskQueueMaxRetriesKey   = "task_queue_max_retries"
	gcloudProjectIDKey       = "gcloud_project_id"
	gcloudLocationIDKey      = "gcloud_location_id"
	gcloudQueueIDKey         = "gcloud_queue_id"
	gcloudTargetURLKey       = "gcloud_target_url"
	notificationTargetURLKey = "notification_target_url"

	defaultTaskQueueName       = "default"
	defaultTaskQueueMaxRetries = 3
)

type TaskQueueConfig struct {
	PrimindTasksURL string
	QueueName       string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	// NotificationTargetURL receives reminder tasks at the deadline.
	NotificationTargetURL string

	MaxRetries int
}

func loadTaskQueueConfig(k *koanf.Koanf) TaskQueueConfig {
	maxRetries := k.Int(taskQueueMaxRetriesKey)
	if maxRetries <= 0 {
		maxRetries = defaultTaskQueueMaxRetries
	}

	gcloudTarget := k.String(gcloudTargetURLKey)
	notificationTarget := k.String(notificationTargetURLKey)
	if notificationTarget == "" {
		notificationTarget = gcloudTarget
	}

	return TaskQueueConfig{
		PrimindTasksURL: k.String(primindTasksURLKey),
		QueueName:       k.String(taskQueueNameKey),

		GCloudProjectID:  k.String(gcloudProjectIDKey),
		GCloudLocationID: k.String(gcloudLocationIDKey),
		GCloudQueueID:    k.String(gcloudQueueIDKey),
		GCloudTargetURL:  gcloudTarget,

		NotificationTargetURL: notificationTarget,

		MaxRetries: maxRetries,
	}
}
