// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, repair, reset, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/kvstore"
	"github.com/spf13/cobra"
)

var syncRepairForce bool

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Manage Charm Cloud sync",
	Long: `Manage Charm Cloud sync for the charm backend.

Workouts, meals, templates and settings are encrypted with your SSH key
before they leave this machine. Every write pushes to Charm Cloud, and
every start pulls the latest copy.

SETUP:

  fitlog sync link      # on each device, with the same Charm account
  fitlog sync status    # confirm the account and record counts

MAINTENANCE:

  repair   checkpoint the WAL, drop stale SHM files, verify, vacuum
  reset    throw away local data and pull it again from the cloud
  wipe     delete the cloud backups and local data for good`,
}

func runCharm(arg string) error {
	c := exec.Command("charm", arg)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to a Charm account",
	Long: `Link this device to a Charm account using the charm CLI.

A new account is created from your SSH key when you have none; otherwise
charm walks you through linking to the existing one. An initial pull runs
once linking succeeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("link"); err != nil {
			return fmt.Errorf("charm link: %w (install the CLI with 'go install github.com/charmbracelet/charm@latest')", err)
		}
		color.Green("✓ Linked to Charm")

		store, err := kvstore.OpenCharm(config.CharmDBName, cfg.CharmHost)
		if err != nil {
			color.Yellow("⚠ Could not open the fitlog database: %v", err)
			return nil
		}
		defer func() { _ = store.Close() }()
		if err := store.Sync(); err != nil {
			color.Yellow("⚠ First sync did not finish: %v", err)
			return nil
		}
		color.Green("✓ Pulled latest data")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Unlink this device from Charm",
	Long: `Unlink this device from Charm. Local data stays where it is, and
'fitlog sync link' connects it again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("charm unlink: %w", err)
		}
		color.Green("✓ Unlinked; local data kept")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fmt.Println("Backend:", cfg.GetBackend())

		if cfg.GetBackend() == "charm" {
			id, err := kvstore.CharmID()
			if err != nil {
				color.Yellow("✗ No Charm account on this device (%v)", err)
				fmt.Println(faint.Sprint("link one with 'fitlog sync link'"))
				return nil
			}
			host := cfg.CharmHost
			if host == "" {
				host = kvstore.DefaultCharmHost
			}
			fmt.Printf("Account: %s@%s\n", id, host)
			if cs, ok := svc.Store.(*kvstore.CharmStore); ok && cs.IsReadOnly() {
				color.Yellow("⚠ Database is locked by another process (read-only)")
			}
			color.Green("✓ Syncing")
		} else {
			color.Yellow("✗ Not syncing: the %s backend is local only", cfg.GetBackend())
		}
		fmt.Println()

		fmt.Printf("  Exercises: %d\n", len(svc.Exercises.List(ctx)))
		fmt.Printf("  Templates: %d\n", len(svc.Templates.List(ctx)))
		fmt.Printf("  Workouts:  %d\n", len(svc.Workouts.List(ctx)))
		fmt.Printf("  Meals:     %d\n", len(svc.Meals.List(ctx)))
		if svc.Workouts.Active(ctx) != nil {
			fmt.Println("  Active workout in progress")
		}
		return nil
	},
}

// step prints one line of a maintenance report.
func step(ok bool, done, failed string) {
	if ok {
		color.Green("  ✓ %s", done)
		return
	}
	if failed != "" {
		color.Red("  ✗ %s", failed)
	}
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair the local Charm database",
	Long: `Repair the local fitlog database: checkpoint the WAL, remove a stale
SHM file, run an integrity check and vacuum.

Run it after "database is locked" errors or a crash. --force keeps going
when the integrity check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := kvstore.RepairCharm(config.CharmDBName, syncRepairForce)

		step(report.WalCheckpointed, "WAL checkpointed", "")
		step(report.ShmRemoved, "stale SHM removed", "")
		step(report.IntegrityOK, "integrity ok", "integrity check failed")
		step(report.Vacuumed, "vacuumed", "")

		if err != nil {
			if !syncRepairForce {
				fmt.Println(faint.Sprint("retry with --force to continue past integrity failures"))
			}
			return err
		}
		color.Green("✓ Database repaired")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace local data with the cloud copy",
	Long: `Delete the local fitlog database and pull a fresh copy from Charm Cloud.
Anything not yet synced is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd.InOrStdin(), "Replace all local fitlog data with the cloud copy? [y/N]: ", "y", "Y") {
			fmt.Println("Nothing changed.")
			return nil
		}
		if err := kvstore.ResetCharm(config.CharmDBName); err != nil {
			return err
		}
		color.Green("✓ Local data replaced from the cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete cloud backups and local data",
	Long: `Permanently delete every fitlog backup in Charm Cloud and the local
database. There is no undo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd.InOrStdin(), "All workouts and meals will be gone everywhere. Type 'wipe' to continue: ", "wipe") {
			fmt.Println("Nothing changed.")
			return nil
		}
		report, err := kvstore.WipeCharm(config.CharmDBName)
		if err != nil {
			return err
		}
		color.Green("✓ Wiped %d cloud backups and %d local files", report.CloudBackupsDeleted, report.LocalFilesDeleted)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().BoolVar(&syncRepairForce, "force", false, "attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
