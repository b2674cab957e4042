package kvstore

import (
	"context"
	"sync"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

// MemoryStore keeps values in process memory only. It is the fallback when
// no durable backend can be opened, and the store used by unit tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current []byte
	if v, ok := s.values[key]; ok {
		current = append([]byte(nil), v...)
	}

	next, err := fn(current)
	if err != nil || next == nil {
		return err
	}
	s.values[key] = append([]byte(nil), next...)
	return nil
}
