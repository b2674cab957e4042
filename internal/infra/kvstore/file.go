package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

const fileStorePerm = 0o600

// FileStore is a single JSON document mapping keys to values. Every Set or
// Delete rewrites the whole document through a temp file and a rename.
type FileStore struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

func NewFileStore(fs afero.Fs, path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	return &FileStore{
		fs:   fs,
		path: path,
	}, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return nil, err
	}

	v, ok := values[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	return s.write(values)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)

	return s.write(values)
}

// Update is atomic within this process only. The file belongs to a single
// service instance.
func (s *FileStore) Update(_ context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}

	next, err := fn(values[key])
	if err != nil || next == nil {
		return err
	}
	values[key] = next

	return s.write(values)
}

// read treats a missing or corrupt document as empty.
func (s *FileStore) read() (map[string][]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string][]byte), nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	values := make(map[string][]byte)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		slog.Warn("store file is corrupt, starting empty",
			slog.String("event", "kvstore.file.corrupt"),
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		return make(map[string][]byte), nil
	}

	return values, nil
}

func (s *FileStore) write(values map[string][]byte) error {
	data, err := json.Marshal(values)
	if err != nil {
		return ErrInvalidFileData
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, fileStorePerm); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	return nil
}
