// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Moves every collection key from one backend to another.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/kvstore"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy every fitlog collection from one storage backend to another.

Backends: charm, badger, sqlite.

Keys missing from the source are skipped. Keys already present in the
destination are overwritten, so the destination must be empty unless
--force is given.

USAGE:

  fitlog migrate --from charm --to sqlite --dry-run   # Preview
  fitlog migrate --from charm --to sqlite             # Copy
  fitlog migrate --from badger --to charm             # Start syncing local data

Afterwards set "backend" in ~/.config/fitlog/config.json (or
FITLOG_BACKEND) to the destination.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == "" || migrateTo == "" {
			return fmt.Errorf("both --from and --to are required")
		}
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %s", migrateFrom)
		}
		for _, b := range []string{migrateFrom, migrateTo} {
			if b == "memory" {
				return fmt.Errorf("cannot migrate to or from the memory backend")
			}
		}

		if !migrateForce && !migrateDryRun {
			path, exists, err := localData(migrateTo)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("destination %s is not empty (use --force to overwrite)", path)
			}
		}

		src, err := cfg.OpenBackend(migrateFrom)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer func() { _ = src.Close() }()

		dst, err := cfg.OpenBackend(migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = dst.Close() }()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
		}

		summary, err := kvstore.Migrate(cmd.Context(), src, dst, migrateDryRun)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		for _, key := range summary.Copied {
			color.Green("  ✓ %s", key)
		}
		if len(summary.Missing) > 0 {
			fmt.Println(faint.Sprintf("  skipped (not in source): %s", strings.Join(summary.Missing, ", ")))
		}
		fmt.Println()
		if migrateDryRun {
			fmt.Printf("Would copy %d keys (%d bytes) from %s to %s\n", len(summary.Copied), summary.Bytes, migrateFrom, migrateTo)
			return nil
		}
		color.Green("✓ Copied %d keys (%d bytes) from %s to %s", len(summary.Copied), summary.Bytes, migrateFrom, migrateTo)
		return nil
	},
}

// localData reports where a local backend keeps its files and whether any
// exist yet. Charm is never considered to hold data here.
func localData(backend string) (string, bool, error) {
	switch backend {
	case "badger":
		dir := filepath.Join(cfg.GetDataDir(), "kv")
		nonEmpty, err := kvstore.IsDirNonEmpty(dir)
		return dir, nonEmpty, err
	case "sqlite":
		path := filepath.Join(cfg.GetDataDir(), "fitlog.db")
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return path, err == nil, err
	default:
		return "", false, nil
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend ("+strings.Join(config.Backends, ", ")+")")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite a non-empty destination")
	rootCmd.AddCommand(migrateCmd)
}
