package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/KasumiMercury/primind-void-timer/internal/observability/logging"
)

const configFileEnv = "CONFIG_FILE"

type Config struct {
	Port     string
	LogLevel slog.Level
	Env      string

	Store     *StoreConfig
	Redis     *RedisConfig
	Timer     *TimerConfig
	Sync      *SyncConfig
	TaskQueue TaskQueueConfig
	Recorder  *RecorderConfig
}

// Load merges built-in defaults, the optional YAML file named by CONFIG_FILE
// and the environment, in that order. Keys are the lower-cased variable
// names, so REDIS_ADDR and a "redis_addr" file entry set the same value.
func Load() (*Config, error) {
	k, err := newKoanf(os.Getenv(configFileEnv))
	if err != nil {
		return nil, err
	}

	storeConfig := loadStoreConfig(k)

	redisConfig, err := loadRedisConfig(k)
	if err != nil {
		return nil, err
	}

	timerConfig, err := loadTimerConfig(k)
	if err != nil {
		return nil, err
	}

	port := k.String("port")

	return &Config{
		Port:      port,
		LogLevel:  logging.ParseLevel(k.String("log_level")),
		Env:       k.String("env"),
		Store:     storeConfig,
		Redis:     redisConfig,
		Timer:     timerConfig,
		Sync:      loadSyncConfig(k, port),
		TaskQueue: loadTaskQueueConfig(k),
		Recorder:  loadRecorderConfig(k),
	}, nil
}

func newKoanf(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	return k, nil
}

// envValue skips empty variables so that they do not mask defaults.
func envValue(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return strings.ToLower(key), value
}

func defaults() map[string]any {
	return map[string]any{
		"port":      "8080",
		"log_level": "info",
		"env":       "dev",

		storeBackendKey:   StoreBackendRedis,
		storeFilePathKey:  defaultStoreFilePath,
		storeNamespaceKey: defaultStoreNamespace,
		eventDBPathKey:    defaultEventDBPath,
		timezoneKey:       "Local",

		redisAddrKey: defaultRedisAddr,
		redisDBKey:   "0",

		timerIntervalMinutesKey: defaultIntervalMinutes,
		timerSnoozeMinutesKey:   defaultSnoozeMinutes,
		timerTickEnabledKey:     true,
		quietWindowEnabledKey:   true,
		quietWindowStartHourKey: defaultQuietWindowStartHour,
		quietWindowEndHourKey:   defaultQuietWindowEndHour,
		syncWakeIntervalKey:     defaultWakeIntervalMinutes,
		syncRecentDaysKey:       defaultRecentDays,
		syncMaxBatchSizeKey:     defaultMaxBatchSize,
		taskQueueNameKey:        defaultTaskQueueName,
		taskQueueMaxRetriesKey:  defaultTaskQueueMaxRetries,
		influxDBURLKey:          defaultInfluxDBURL,
		influxDBBucketKey:       defaultResultsDataset,
		bigQueryDatasetKey:      defaultResultsDataset,
		bigQueryTableKey:        defaultResultsDataset,
	}
}
