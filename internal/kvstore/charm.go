// ABOUTME: Charm KV backed Store with automatic cloud sync after writes.
// ABOUTME: Also exposes account, repair and wipe helpers for the sync command.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// DefaultCharmHost is the Charm server fitlog syncs against.
const DefaultCharmHost = "charm.2389.dev"

// ErrReadOnly is returned by writes when another process holds the lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// CharmStore wraps a Charm KV database.
type CharmStore struct {
	kv       *kv.KV
	name     string
	autoSync bool
	mu       sync.RWMutex
}

var _ Store = (*CharmStore)(nil)

// OpenCharm opens the named Charm KV database against host. Remote data is
// pulled once on open unless the database is read-only.
func OpenCharm(name, host string) (*CharmStore, error) {
	if host == "" {
		host = DefaultCharmHost
	}
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, fmt.Errorf("set charm host: %w", err)
	}

	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	s := &CharmStore{kv: db, name: name, autoSync: true}
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return s, nil
}

// Name returns the database name.
func (s *CharmStore) Name() string {
	return s.name
}

func (s *CharmStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, err := s.kv.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) || !s.hasKey(key) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("charm get %s: %w", key, err)
	}
	if val == nil {
		return nil, ErrNotFound
	}
	return val, nil
}

// hasKey scans the key list. Callers hold the lock.
func (s *CharmStore) hasKey(key string) bool {
	keys, err := s.kv.Keys()
	if err != nil {
		return true
	}
	for _, k := range keys {
		if string(k) == key {
			return true
		}
	}
	return false
}

func (s *CharmStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := s.kv.Set([]byte(key), value); err != nil {
		return fmt.Errorf("charm set %s: %w", key, err)
	}
	s.syncIfEnabled()
	return nil
}

func (s *CharmStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := s.kv.Delete([]byte(key)); err != nil {
		return fmt.Errorf("charm remove %s: %w", key, err)
	}
	s.syncIfEnabled()
	return nil
}

// Close closes the KV database.
func (s *CharmStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv != nil {
		return s.kv.Close()
	}
	return nil
}

// IsReadOnly reports whether another process holds the database lock.
func (s *CharmStore) IsReadOnly() bool {
	return s.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (s *CharmStore) Sync() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kv.IsReadOnly() {
		return nil
	}
	return s.kv.Sync()
}

func (s *CharmStore) syncIfEnabled() {
	if s.autoSync && !s.kv.IsReadOnly() {
		_ = s.kv.Sync()
	}
}

// SetAutoSync enables or disables sync after every write.
func (s *CharmStore) SetAutoSync(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSync = enabled
}

// Reset wipes local data and rebuilds it from Charm Cloud.
func (s *CharmStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Reset()
}

// CharmID returns the Charm user ID of the linked account.
func CharmID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// RepairReport summarizes a Repair run.
type RepairReport struct {
	WalCheckpointed bool
	ShmRemoved      bool
	IntegrityOK     bool
	Vacuumed        bool
}

// RepairCharm checkpoints the WAL, checks integrity and vacuums the named
// database. The database must not be open in this process. The report is
// filled in as far as repair got, even when it fails.
func RepairCharm(name string, force bool) (*RepairReport, error) {
	res, err := kv.Repair(name, force)
	report := &RepairReport{
		WalCheckpointed: res.WalCheckpointed,
		ShmRemoved:      res.ShmRemoved,
		IntegrityOK:     res.IntegrityOK,
		Vacuumed:        res.Vacuumed,
	}
	if err != nil {
		return report, fmt.Errorf("repair %s: %w", name, err)
	}
	return report, nil
}

// ResetCharm drops local data for the named database and restores it from
// Charm Cloud. The database must not be open in this process.
func ResetCharm(name string) error {
	if err := kv.Reset(name); err != nil {
		return fmt.Errorf("reset %s: %w", name, err)
	}
	return nil
}

// WipeReport summarizes a Wipe run.
type WipeReport struct {
	CloudBackupsDeleted int
	LocalFilesDeleted   int
}

// WipeCharm deletes the named database locally and in Charm Cloud.
func WipeCharm(name string) (*WipeReport, error) {
	res, err := kv.Wipe(name)
	if err != nil {
		return nil, fmt.Errorf("wipe %s: %w", name, err)
	}
	return &WipeReport{
		CloudBackupsDeleted: int(res.CloudBackupsDeleted),
		LocalFilesDeleted:   int(res.LocalFilesDeleted),
	}, nil
}
