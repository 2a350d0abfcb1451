// ABOUTME: CLI commands for workout templates.
// ABOUTME: Supports list, create, show and delete.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/spf13/cobra"
)

var templateDescription string

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage workout templates",
	Long: `Templates are named exercise lists you can start workouts from.

WORKFLOW:

  1. Create a template:   fitlog template create "Push Day" builtin-bench-press builtin-push-up
  2. Start from it:       fitlog workout start --template <template-id>

Exercises are looked up by ID or ID prefix (see 'fitlog exercise list').`,
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates := svc.Templates.List(cmd.Context())
		if len(templates) == 0 {
			fmt.Println("No templates found.")
			return nil
		}
		sort.SliceStable(templates, func(i, j int) bool {
			return strings.ToLower(templates[i].Name) < strings.ToLower(templates[j].Name)
		})
		for _, t := range templates {
			fmt.Printf("%s %s %s\n",
				faint.Sprint(shortID(t.ID)),
				padRight(t.Name, 24),
				faint.Sprintf("%d exercises", len(t.Exercises)))
		}
		return nil
	},
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name> <exercise-id>...",
	Short: "Create a template",
	Long: `Create a template from one or more exercises.

EXAMPLES:

  fitlog template create "Leg Day" builtin-squat builtin-leg-press
  fitlog template create "Pull" builtin-pull -d "Back and biceps"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises := make([]models.Exercise, 0, len(args)-1)
		for _, id := range args[1:] {
			e, err := svc.Exercises.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("exercise %q: %w", id, err)
			}
			exercises = append(exercises, *e)
		}

		t, err := svc.Templates.Create(cmd.Context(), args[0], exercises, templateDescription)
		if err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}

		color.Green("✓ Created template %s", t.Name)
		fmt.Printf("  ID: %s\n", shortID(t.ID))
		for _, e := range t.Exercises {
			fmt.Printf("  - %s\n", e.Name)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := svc.Templates.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}

		color.New(color.Bold).Println(t.Name)
		fmt.Printf("ID: %s\n", t.ID)
		if t.Description != nil {
			fmt.Printf("Description: %s\n", *t.Description)
		}
		fmt.Println()
		for i, e := range t.Exercises {
			fmt.Printf("  %d. %s %s\n", i+1, e.Name, faint.Sprintf("(%s)", models.CategoryLabels[e.Category]))
		}
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := svc.Templates.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		if err := svc.Templates.Delete(cmd.Context(), t.ID); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		color.Yellow("✗ Deleted template %s", t.Name)
		return nil
	},
}

func init() {
	templateCreateCmd.Flags().StringVarP(&templateDescription, "description", "d", "", "template description")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}
