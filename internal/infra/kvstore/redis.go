package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

// maxUpdateAttempts bounds optimistic retries of Update under contention.
const maxUpdateAttempts = 16

var _ domain.KVUpdater = (*redisStore)(nil)

type redisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore returns a store whose keys live under "<namespace>:" so that
// every process sharing the namespace (the service and any widget renderer)
// sees the same values.
func NewRedisStore(client *redis.Client, namespace string) domain.KVStore {
	return &redisStore{
		client:    client,
		namespace: namespace,
	}
}

func (s *redisStore) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	return data, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Update runs fn inside WATCH/MULTI/EXEC and retries when another client
// wrote the key in between.
func (s *redisStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if key == "" {
		return ErrInvalidKey
	}

	k := s.key(key)
	var fnErr error

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			current, err = nil, nil
		}
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			fnErr = err
			return err
		}
		if next == nil {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		fnErr = nil
		err := s.client.Watch(ctx, txf, k)
		switch {
		case err == nil:
			return nil
		case fnErr != nil:
			return fnErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, ErrUpdateConflict)
}
