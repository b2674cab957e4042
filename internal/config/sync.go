package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

const (
	remoteStoreURLKey   = "remote_store_url"
	syncWakeIntervalKey = "sync_wake_interval_minutes"
	syncRecentDaysKey   = "sync_recent_days"
	syncMaxBatchSizeKey = "sync_max_batch_size"
	wakeTargetURLKey    = "wake_target_url"

	defaultWakeIntervalMinutes = 15
	defaultRecentDays          = 7
	defaultMaxBatchSize        = 400

	wakePath = "/api/v1/sync/wake"
)

type SyncConfig struct {
	RemoteStoreURL      string
	WakeIntervalMinutes int
	RecentDays          int
	MaxBatchSize        int
	WakeTargetURL       string
}

func loadSyncConfig(k *koanf.Koanf, port string) *SyncConfig {
	wakeTarget := k.String(wakeTargetURLKey)
	if wakeTarget == "" {
		wakeTarget = "http://localhost:" + port + wakePath
	}

	return &SyncConfig{
		RemoteStoreURL:      k.String(remoteStoreURLKey),
		WakeIntervalMinutes: k.Int(syncWakeIntervalKey),
		RecentDays:          k.Int(syncRecentDaysKey),
		MaxBatchSize:        k.Int(syncMaxBatchSizeKey),
		WakeTargetURL:       wakeTarget,
	}
}

func (c *SyncConfig) WakeInterval() time.Duration {
	return time.Duration(c.WakeIntervalMinutes) * time.Minute
}
