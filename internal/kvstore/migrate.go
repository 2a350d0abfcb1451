// ABOUTME: Data migration between key-value backends.
// ABOUTME: Copies every known collection key from source to destination.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// MigrateSummary reports which keys were copied and which were absent.
type MigrateSummary struct {
	Copied  []string
	Missing []string
	Bytes   int
}

// Migrate copies every key in AllKeys from src to dst. Keys absent in src
// are skipped, not removed from dst. With dryRun set, nothing is written.
func Migrate(ctx context.Context, src, dst Store, dryRun bool) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	for _, key := range AllKeys {
		value, err := src.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			summary.Missing = append(summary.Missing, key)
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("read source %s: %w", key, err)
		}

		if !dryRun {
			if err := dst.Set(ctx, key, value); err != nil {
				return summary, fmt.Errorf("write destination %s: %w", key, err)
			}
		}
		summary.Copied = append(summary.Copied, key)
		summary.Bytes += len(value)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any entries.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
