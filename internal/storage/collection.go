// ABOUTME: Generic JSON collection stored whole under one key-value key.
// ABOUTME: Reads fail open to empty; mutations are full read-modify-write.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlog/internal/kvstore"
)

// Record is anything stored in a Collection.
type Record interface {
	RecordID() string
}

// Collection is a JSON array of T under a single key. There is no cache:
// every call re-reads the store, and concurrent writers are last-write-wins.
type Collection[T Record] struct {
	store kvstore.Store
	key   string
}

// NewCollection binds a collection to key.
func NewCollection[T Record](store kvstore.Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

// Key returns the store key.
func (c *Collection[T]) Key() string {
	return c.key
}

// load is the strict read used by mutations. ok is false when the key has
// never been written.
func (c *Collection[T]) load(ctx context.Context) (items []T, ok bool, err error) {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []T{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", c.key, err)
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, true, nil
}

// All returns every record. Read and decode failures are logged and yield an
// empty slice.
func (c *Collection[T]) All(ctx context.Context) []T {
	items, _, err := c.load(ctx)
	if err != nil {
		log.Warn("collection read failed, using empty list", "key", c.key, "err", err)
		return []T{}
	}
	return items
}

// Exists reports whether the key has been written.
func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	_, err := c.store.Get(ctx, c.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", c.key, err)
	}
	return true, nil
}

// Find returns the record whose id equals idOrPrefix, or the single record
// whose id starts with it.
func (c *Collection[T]) Find(ctx context.Context, idOrPrefix string) (T, error) {
	var zero T
	if idOrPrefix == "" {
		return zero, ErrNotFound
	}

	var matches []T
	for _, item := range c.All(ctx) {
		id := item.RecordID()
		if id == idOrPrefix {
			return item, nil
		}
		if strings.HasPrefix(id, idOrPrefix) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s %s: %w", c.key, idOrPrefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s %s: %w", c.key, idOrPrefix, ErrAmbiguousID)
	}
}

// Save overwrites the whole collection.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

// Append adds records to the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, items ...T) error {
	all, _, err := c.load(ctx)
	if err != nil {
		return err
	}
	return c.Save(ctx, append(all, items...))
}

// Replace swaps in item for the record with the same id. Returns ErrNotFound
// when no record matches.
func (c *Collection[T]) Replace(ctx context.Context, item T) error {
	all, _, err := c.load(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].RecordID() == item.RecordID() {
			all[i] = item
			return c.Save(ctx, all)
		}
	}
	return fmt.Errorf("%s %s: %w", c.key, item.RecordID(), ErrNotFound)
}

// Remove drops the record with id. A missing id is a no-op and nothing is
// written; removed reports whether a record was dropped.
func (c *Collection[T]) Remove(ctx context.Context, id string) (removed bool, err error) {
	all, _, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]T, 0, len(all))
	for _, item := range all {
		if item.RecordID() == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return false, nil
	}
	return true, c.Save(ctx, kept)
}

// Slot is a single JSON value under one key, such as the active workout.
type Slot[T any] struct {
	store kvstore.Store
	key   string
}

// NewSlot binds a slot to key.
func NewSlot[T any](store kvstore.Store, key string) *Slot[T] {
	return &Slot[T]{store: store, key: key}
}

// Load returns the stored value, or nil when the slot is empty.
func (s *Slot[T]) Load(ctx context.Context) (*T, error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return &v, nil
}

// Peek is the fail-open read: errors are logged and reported as empty.
func (s *Slot[T]) Peek(ctx context.Context) *T {
	v, err := s.Load(ctx)
	if err != nil {
		log.Warn("slot read failed, treating as empty", "key", s.key, "err", err)
		return nil
	}
	return v
}

// Put overwrites the slot.
func (s *Slot[T]) Put(ctx context.Context, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// Clear empties the slot.
func (s *Slot[T]) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear %s: %w", s.key, err)
	}
	return nil
}
