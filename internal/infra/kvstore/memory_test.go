package kvstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("expected stored value to be isolated from caller, got %q", got)
	}

	got[1] = 'y'
	again, _ := store.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("expected returned value to be a copy, got %q", again)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "k", []byte("v"))
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Update(ctx, "counter", counterUpdate); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "50" {
		t.Errorf("expected counter 50, got %s", got)
	}

	if err := store.Update(ctx, "untouched", func([]byte) ([]byte, error) { return nil, nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, "untouched"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound when fn returns nil, got %v", err)
	}
}
