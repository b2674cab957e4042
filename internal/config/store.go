package config

import (
	"github.com/knadh/koanf/v2"
)

const (
	storeBackendKey   = "store_backend"
	storeFilePathKey  = "store_file_path"
	storeNamespaceKey = "store_namespace"
	eventDBPathKey    = "event_db_path"

	StoreBackendRedis = "redis"
	StoreBackendFile  = "file"

	defaultStoreFilePath  = "void-timer-store.json"
	defaultStoreNamespace = "group.primind.gotime"
	defaultEventDBPath    = "void-timer-events.db"
)

// StoreConfig selects where timer state, the pending queue and the local
// event history live.
type StoreConfig struct {
	Backend     string
	FilePath    string
	Namespace   string
	EventDBPath string
}

func loadStoreConfig(k *koanf.Koanf) *StoreConfig {
	return &StoreConfig{
		Backend:     k.String(storeBackendKey),
		FilePath:    k.String(storeFilePathKey),
		Namespace:   k.String(storeNamespaceKey),
		EventDBPath: k.String(eventDBPathKey),
	}
}

func (c *StoreConfig) UsesRedis() bool {
	return c.Backend == StoreBackendRedis
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendRedis:
		return nil
	case StoreBackendFile:
		if c.FilePath == "" {
			return ErrStoreFileMissing
		}
		return nil
	default:
		return ErrInvalidStore
	}
}
