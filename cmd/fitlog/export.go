// ABOUTME: CLI commands for exporting and importing fitlog data.
// ABOUTME: Supports JSON, YAML and Markdown export and JSON import.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export fitlog data",
	Long: `Export fitlog data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup and import)
  yaml       YAML export (human-readable)
  markdown   Per-day tables of workouts and meals with macro totals

EXAMPLES:

  fitlog export json -o backup.json
  fitlog export yaml
  fitlog export markdown --since 2026-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var data []byte
		var err error
		switch args[0] {
		case "json":
			data, err = svc.ExportJSON(ctx)
		case "yaml":
			data, err = svc.ExportYAML(ctx)
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			data = []byte(svc.ExportMarkdown(ctx, since))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}
		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import fitlog data from a JSON export",
	Long: `Import fitlog data from a JSON export.

Records are merged by ID: existing records with the same ID are
overwritten, everything else is kept. An active workout in the file is
ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		summary, err := svc.ImportJSON(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", args[0])
		fmt.Printf("  Exercises: %d\n", summary.Exercises)
		fmt.Printf("  Templates: %d\n", summary.Templates)
		fmt.Printf("  Workouts:  %d\n", summary.Workouts)
		fmt.Printf("  Meals:     %d\n", summary.Meals)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (markdown only, YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
