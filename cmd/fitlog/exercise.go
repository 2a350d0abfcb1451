// ABOUTME: CLI commands for the exercise library.
// ABOUTME: Supports list, add and delete; built-in exercises are read-only.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exerciseCategory    string
	exerciseDescription string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise library",
	Long: `Browse and extend the exercise library.

The library starts with built-in exercises for every category:
  chest, back, legs, shoulders, arms, core, cardio, full_body, other

Built-in exercises cannot be deleted. Add your own with 'fitlog exercise add'.`,
}

var exerciseListCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	Long: `List exercises, optionally filtered by a name search and category.

EXAMPLES:

  fitlog exercise list                 # Everything, grouped by category
  fitlog exercise list press           # Names containing "press"
  fitlog exercise list -c legs         # Only leg exercises`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cat *models.Category
		if exerciseCategory != "" {
			if !models.IsValidCategory(exerciseCategory) {
				return fmt.Errorf("unknown category: %s", exerciseCategory)
			}
			c := models.Category(exerciseCategory)
			cat = &c
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		exercises := svc.Exercises.Search(cmd.Context(), query, cat)
		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		var current models.Category
		for _, e := range exercises {
			if e.Category != current {
				current = e.Category
				color.New(color.Bold).Println(models.CategoryLabels[current])
			}
			custom := ""
			if e.IsCustom {
				custom = faint.Sprint(" (custom)")
			}
			fmt.Printf("  %s %s%s\n", faint.Sprint(padRight(shortID(e.ID), 8)), e.Name, custom)
		}
		return nil
	},
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom exercise",
	Long: `Add a custom exercise to the library.

EXAMPLES:

  fitlog exercise add "Sled Push" -c legs
  fitlog exercise add "Farmer Carry" -c full_body -d "Heavy dumbbells, 40m"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exerciseCategory == "" {
			exerciseCategory = string(models.CategoryOther)
		}
		e, err := svc.Exercises.Create(cmd.Context(), args[0], models.Category(exerciseCategory), exerciseDescription)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		color.Green("✓ Added %s", e.Name)
		fmt.Printf("  %s %s\n", faint.Sprint(shortID(e.ID)), models.CategoryLabels[e.Category])
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a custom exercise",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := svc.Exercises.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}
		if err := svc.Exercises.Delete(cmd.Context(), e.ID); err != nil {
			if errors.Is(err, storage.ErrBuiltInExercise) {
				return fmt.Errorf("%s is built in and cannot be deleted", e.Name)
			}
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		color.Yellow("✗ Deleted %s", e.Name)
		return nil
	},
}

func init() {
	exerciseListCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "filter by category")
	exerciseAddCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "category (default other)")
	exerciseAddCmd.Flags().StringVarP(&exerciseDescription, "description", "d", "", "description")

	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
