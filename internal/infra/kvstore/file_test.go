package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

func newTestFileStore(t *testing.T) (*FileStore, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	store, err := NewFileStore(fs, "/data/store.json")
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	return store, fs
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, fs := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "timerIntervalMinutes", []byte("150")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Set(ctx, "sleepStartHour", []byte("20")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "timerIntervalMinutes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "150" {
		t.Errorf("expected %q, got %q", "150", got)
	}

	// A second store over the same file sees the values, as after a restart.
	reopened, err := NewFileStore(fs, "/data/store.json")
	if err != nil {
		t.Fatalf("failed to reopen file store: %v", err)
	}
	got, err = reopened.Get(ctx, "sleepStartHour")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "20" {
		t.Errorf("expected %q, got %q", "20", got)
	}

	if exists, _ := afero.Exists(fs, "/data/store.json.tmp"); exists {
		t.Error("temp file left behind after write")
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, _ := newTestFileStore(t)

	_, err := store.Get(context.Background(), "targetVoidTime")
	if !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestFileStoreCorruptFileReadsEmpty(t *testing.T) {
	store, fs := newTestFileStore(t)
	ctx := context.Background()

	if err := afero.WriteFile(fs, "/data/store.json", []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}

	if _, err := store.Get(ctx, "targetVoidTime"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound on corrupt file, got %v", err)
	}

	// The next write replaces the corrupt document.
	if err := store.Set(ctx, "targetVoidTime", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Get(ctx, "targetVoidTime")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("expected %q, got %q", "v", got)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("unexpected error deleting missing key: %v", err)
	}
	if _, err := store.Get(ctx, "a"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestFileStoreUpdate(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	for range 3 {
		if err := store.Update(ctx, "counter", counterUpdate); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	reopened, err := NewFileStore(store.fs, "/data/store.json")
	if err != nil {
		t.Fatalf("failed to reopen file store: %v", err)
	}
	got, err := reopened.Get(ctx, "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "3" {
		t.Errorf("expected counter 3 after reopen, got %s", got)
	}
}
