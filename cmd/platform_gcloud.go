//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-void-timer/internal/config"
	"github.com/KasumiMercury/primind-void-timer/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-void-timer/internal/observability"
	"github.com/KasumiMercury/primind-void-timer/internal/observability/logging"
)

// initTaskQueue connects Cloud Tasks. Reminder and wake tasks carry their own
// target URL; GCLOUD_TARGET_URL is only the fallback for tasks without one.
func initTaskQueue(ctx context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	tq := cfg.TaskQueue

	client, err := taskqueue.NewCloudTasksClient(ctx, taskqueue.CloudTasksConfig{
		ProjectID:  tq.GCloudProjectID,
		LocationID: tq.GCloudLocationID,
		QueueID:    tq.GCloudQueueID,
		TargetURL:  tq.GCloudTargetURL,
		MaxRetries: tq.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("task queue initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("queue", tq.GCloudQueueID),
		slog.String("notification_target", tq.NotificationTargetURL),
		slog.String("wake_target", cfg.Sync.WakeTargetURL),
	)

	return client, client.Close, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "void-timer"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: moduleName,
		LogLevel:      logging.ParseLevel(os.Getenv("LOG_LEVEL")),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
