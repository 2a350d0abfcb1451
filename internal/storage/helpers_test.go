// ABOUTME: Shared fixtures for storage tests.
// ABOUTME: Provides an in-memory services bundle and a store that fails on demand.
package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/harperreed/fitlog/internal/kvstore"
)

func setupTestServices(t *testing.T) (*Services, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	svc := NewServices(store)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, store
}

var errBoom = errors.New("boom")

// flakyStore wraps a memory store and fails reads or writes when asked.
type flakyStore struct {
	*kvstore.MemoryStore
	failGet bool
	failSet bool
	sets    int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: kvstore.NewMemoryStore()}
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errBoom
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.sets++
	if f.failSet {
		return errBoom
	}
	return f.MemoryStore.Set(ctx, key, value)
}
