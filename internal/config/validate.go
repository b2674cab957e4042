package config

import (
	"errors"
	"fmt"
)

// ValidateForRun checks the values the server cannot start without.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Store.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Store.UsesRedis() {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := cfg.Timer.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Sync.RemoteStoreURL == "" {
		errs = append(errs, ErrRemoteStoreMissing)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return nil
}
