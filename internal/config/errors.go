package config

import "errors"

var (
	ErrConfigFile         = errors.New("failed to load config file")
	ErrRedisAddrMissing   = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB     = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidTimezone    = errors.New("TIMEZONE must be a valid IANA location")
	ErrInvalidStore       = errors.New("STORE_BACKEND must be redis or file")
	ErrStoreFileMissing   = errors.New("STORE_FILE_PATH is required for the file backend")
	ErrRemoteStoreMissing = errors.New("REMOTE_STORE_URL is required")
	ErrInvalidInterval    = errors.New("TIMER_INTERVAL_MINUTES must be positive")
	ErrInvalidQuietWindow = errors.New("quiet window hours must be within 0-23")
)
