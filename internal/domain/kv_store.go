package domain

import "context"

//go:generate mockgen -source=kv_store.go -destination=kv_store_mock.go -package=domain

// KVStore is the persisted scalar store shared by the scheduler, the sync
// queue and any companion display surface reading the same namespace.
type KVStore interface {
	// Get returns ErrKeyNotFound when the key has never been set.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
