// ABOUTME: Tests for copying collections between key-value backends.
// ABOUTME: Covers missing keys, dry runs, and directory checks.
package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMigrateCopiesPresentKeys(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore()
	dst := NewMemoryStore()

	_ = src.Set(ctx, KeyWorkouts, []byte(`[{"id":"w1"}]`))
	_ = src.Set(ctx, KeyMeals, []byte(`[]`))
	_ = dst.Set(ctx, KeyExercises, []byte(`["keep"]`))

	summary, err := Migrate(ctx, src, dst, false)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if len(summary.Copied) != 2 {
		t.Errorf("expected 2 copied keys, got %v", summary.Copied)
	}
	if len(summary.Missing) != len(AllKeys)-2 {
		t.Errorf("expected %d missing keys, got %v", len(AllKeys)-2, summary.Missing)
	}
	if summary.Bytes != len(`[{"id":"w1"}]`)+len(`[]`) {
		t.Errorf("unexpected byte count %d", summary.Bytes)
	}

	got, err := dst.Get(ctx, KeyWorkouts)
	if err != nil || string(got) != `[{"id":"w1"}]` {
		t.Errorf("workouts not copied: %q, %v", got, err)
	}
	kept, _ := dst.Get(ctx, KeyExercises)
	if string(kept) != `["keep"]` {
		t.Errorf("key missing from source should be left alone, got %q", kept)
	}
}

func TestMigrateDryRun(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore()
	dst := NewMemoryStore()
	_ = src.Set(ctx, KeyMeals, []byte(`[]`))

	summary, err := Migrate(ctx, src, dst, true)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if len(summary.Copied) != 1 {
		t.Errorf("dry run should still report copied keys, got %v", summary.Copied)
	}
	if _, err := dst.Get(ctx, KeyMeals); err == nil {
		t.Error("dry run wrote to destination")
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	got, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	if err != nil || got {
		t.Errorf("missing dir: got %v, %v", got, err)
	}

	got, err = IsDirNonEmpty(dir)
	if err != nil || got {
		t.Errorf("empty dir: got %v, %v", got, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err = IsDirNonEmpty(dir)
	if err != nil || !got {
		t.Errorf("non-empty dir: got %v, %v", got, err)
	}
}
