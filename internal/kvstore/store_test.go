// ABOUTME: Contract tests shared by every Store backend.
// ABOUTME: Runs the same get/set/remove checks against memory, badger and sqlite.
package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	bs, err := OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("OpenBadgerInMemory failed: %v", err)
	}
	ss, err := OpenSQLite(filepath.Join(t.TempDir(), "fitlog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"badger": bs,
		"sqlite": ss,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, KeyMeals)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreSetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, KeyWorkouts, []byte(`[]`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.Set(ctx, KeyWorkouts, []byte(`[{"id":"w1"}]`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, err := s.Get(ctx, KeyWorkouts)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `[{"id":"w1"}]` {
				t.Errorf("got %q", got)
			}
		})
	}
}

func TestStoreRemove(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, KeyActiveWorkout, []byte(`{}`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.Remove(ctx, KeyActiveWorkout); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if _, err := s.Get(ctx, KeyActiveWorkout); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after remove, got %v", err)
			}
			if err := s.Remove(ctx, KeyActiveWorkout); err != nil {
				t.Errorf("removing a missing key should succeed, got %v", err)
			}
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	buf := []byte("abc")
	_ = s.Set(ctx, "k", buf)
	buf[0] = 'x'

	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed with caller buffer: %q", got)
	}
	got[0] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed with returned buffer: %q", again)
	}
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "fitlog.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := s.Set(ctx, KeyMeals, []byte(`[1]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	_ = s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, KeyMeals)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[1]` {
		t.Errorf("got %q", got)
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "kv")

	s, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	if err := s.Set(ctx, KeyExercises, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, KeyExercises); err != nil {
		t.Errorf("Get after reopen failed: %v", err)
	}
}
