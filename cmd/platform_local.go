//go:build !gcloud

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

// initTaskQueue returns a nil queue when PRIMIND_TASKS_URL is unset. Reminders
// are then skipped and sync wakes run on an in-process ticker.
func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	tq := cfg.TaskQueue
	if tq.PrimindTasksURL == "" {
		slog.Warn("PRIMIND_TASKS_URL not set, reminders disabled and wakes run in-process")

		return nil, nil, nil
	}

	client := taskqueue.NewPrimindTasksClient(tq.PrimindTasksURL, tq.QueueName, tq.MaxRetries)

	slog.Info("task queue initialized",
		slog.String("type", "primind_tasks"),
		slog.String("url", tq.PrimindTasksURL),
		slog.String("queue", tq.QueueName),
		slog.String("notification_target", tq.NotificationTargetURL),
		slog.String("wake_target", cfg.Sync.WakeTargetURL),
	)

	return client, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "void-timer"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: moduleName,
		LogLevel:      logging.ParseLevel(os.Getenv("LOG_LEVEL")),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
