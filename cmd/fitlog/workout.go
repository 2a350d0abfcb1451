// ABOUTME: CLI commands for the active workout and workout history.
// ABOUTME: One workout can be in progress; completing it moves it to history.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	workoutName     string
	workoutTemplate string
	workoutDate     string
	workoutLimit    int
	workoutAppend   bool
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Track workouts",
	Long: `Track strength and cardio workouts.

WORKFLOW:

  1. Start a workout:      fitlog workout start --name "Push Day"
  2. Add exercises:        fitlog workout add-exercise "bench press"
  3. Log sets:             fitlog workout set 1 100x5 100x5 95x8
  4. Finish it:            fitlog workout complete

Only one workout can be in progress at a time. Sets are WEIGHTxREPS; add a
trailing ? to log a set you did not complete (e.g. 100x3?).`,
}

// resolveExercise finds an exercise by id prefix, then exact name, then a
// unique search match.
func resolveExercise(ctx context.Context, ref string) (*models.Exercise, error) {
	e, err := svc.Exercises.Get(ctx, ref)
	if err == nil {
		return e, nil
	}
	if errors.Is(err, storage.ErrAmbiguousID) {
		return nil, err
	}

	matches := svc.Exercises.Search(ctx, ref, nil)
	for i := range matches {
		if strings.EqualFold(matches[i].Name, ref) {
			return &matches[i], nil
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no exercise matches %q", ref)
	case 1:
		return &matches[0], nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	return nil, fmt.Errorf("%q matches several exercises: %s", ref, strings.Join(names, ", "))
}

// exerciseIndex converts a 1-based CLI position to a 0-based index.
func exerciseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid exercise number: %s", arg)
	}
	return n - 1, nil
}

func printWorkout(w *models.Workout) {
	color.New(color.Bold).Println(w.DisplayName())
	fmt.Printf("%s %s\n", faint.Sprint(shortID(w.ID)), faint.Sprint(w.Date.Format("2006-01-02 15:04")))
	if len(w.Exercises) == 0 {
		fmt.Println("\n  No exercises yet.")
		return
	}
	fmt.Println()
	for i, we := range w.Exercises {
		fmt.Printf("  %d. %s\n", i+1, we.Exercise.Name)
		for j, s := range we.Sets {
			mark := color.GreenString("✓")
			if !s.Completed {
				mark = faint.Sprint("·")
			}
			fmt.Printf("     %s set %d: %g x %d\n", mark, j+1, s.Weight, s.Reps)
		}
		if we.Notes != nil {
			fmt.Printf("     %s\n", faint.Sprint(*we.Notes))
		}
	}
	fmt.Printf("\n  %d sets, %.1f volume\n", w.TotalSets(), w.TotalVolume())
}

func activeOrErr(ctx context.Context) (*models.Workout, error) {
	w := svc.Workouts.Active(ctx)
	if w == nil {
		return nil, fmt.Errorf("no workout in progress (start one with 'fitlog workout start')")
	}
	return w, nil
}

var workoutStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a workout",
	Long: `Start a new workout, empty or from a template.

EXAMPLES:

  fitlog workout start
  fitlog workout start --name "Leg Day"
  fitlog workout start --template 3f2a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			w   *models.Workout
			err error
		)
		if workoutTemplate != "" {
			w, err = svc.Workouts.StartFromTemplate(cmd.Context(), workoutTemplate)
		} else {
			w, err = svc.Workouts.Start(cmd.Context(), workoutName)
		}
		if errors.Is(err, storage.ErrActiveWorkoutExists) {
			return fmt.Errorf("a workout is already in progress (complete or discard it first)")
		}
		if err != nil {
			return fmt.Errorf("failed to start workout: %w", err)
		}

		color.Green("✓ Started %s", w.DisplayName())
		fmt.Printf("  ID: %s\n", shortID(w.ID))
		for i, we := range w.Exercises {
			fmt.Printf("  %d. %s\n", i+1, we.Exercise.Name)
		}
		return nil
	},
}

var workoutStatusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show the workout in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := svc.Workouts.Active(cmd.Context())
		if w == nil {
			fmt.Println("No workout in progress.")
			return nil
		}
		printWorkout(w)
		return nil
	},
}

var workoutAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <id-or-name>",
	Short: "Add an exercise to the workout in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w, err := svc.Workouts.AddExercise(cmd.Context(), *e)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		color.Green("✓ Added %s as exercise %d", e.Name, len(w.Exercises))
		return nil
	},
}

var workoutRemoveExerciseCmd = &cobra.Command{
	Use:   "remove-exercise <n>",
	Short: "Remove exercise n from the workout in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := exerciseIndex(args[0])
		if err != nil {
			return err
		}
		if _, err := svc.Workouts.RemoveExercise(cmd.Context(), idx); err != nil {
			return fmt.Errorf("failed to remove exercise: %w", err)
		}
		color.Yellow("✗ Removed exercise %d", idx+1)
		return nil
	},
}

var workoutSetCmd = &cobra.Command{
	Use:   "set <n> <WEIGHTxREPS>...",
	Short: "Log sets for exercise n",
	Long: `Log sets for an exercise in the workout in progress.

By default the given sets replace the exercise's sets. Use --append to add
them after the existing ones.

EXAMPLES:

  fitlog workout set 1 100x5 100x5 100x5
  fitlog workout set 2 60x12 60x10? --append`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := exerciseIndex(args[0])
		if err != nil {
			return err
		}
		sets := make([]models.ExerciseSet, 0, len(args)-1)
		for _, spec := range args[1:] {
			set, err := parseSet(spec)
			if err != nil {
				return err
			}
			sets = append(sets, set)
		}

		if workoutAppend {
			w, err := activeOrErr(cmd.Context())
			if err != nil {
				return err
			}
			if idx < len(w.Exercises) {
				sets = append(append([]models.ExerciseSet{}, w.Exercises[idx].Sets...), sets...)
			}
		}

		w, err := svc.Workouts.UpdateSets(cmd.Context(), idx, sets)
		if err != nil {
			return fmt.Errorf("failed to log sets: %w", err)
		}
		we := w.Exercises[idx]
		color.Green("✓ %s: %d sets", we.Exercise.Name, len(we.Sets))
		return nil
	},
}

var workoutNotesCmd = &cobra.Command{
	Use:   "notes <n> <text>",
	Short: "Set notes on exercise n (empty text clears them)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := exerciseIndex(args[0])
		if err != nil {
			return err
		}
		if _, err := svc.Workouts.UpdateNotes(cmd.Context(), idx, args[1]); err != nil {
			return fmt.Errorf("failed to update notes: %w", err)
		}
		color.Green("✓ Updated notes")
		return nil
	},
}

var workoutRenameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Rename the workout in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.Workouts.Rename(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to rename workout: %w", err)
		}
		color.Green("✓ Renamed to %s", w.DisplayName())
		return nil
	},
}

var workoutCompleteCmd = &cobra.Command{
	Use:     "complete",
	Aliases: []string{"done", "finish"},
	Short:   "Finish the workout in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.Workouts.Complete(cmd.Context())
		if errors.Is(err, storage.ErrNoActiveWorkout) {
			return fmt.Errorf("no workout in progress")
		}
		if err != nil {
			return fmt.Errorf("failed to complete workout: %w", err)
		}
		color.Green("✓ Completed %s", w.DisplayName())
		fmt.Printf("  %d exercises, %d sets, %.1f volume\n", len(w.Exercises), w.TotalSets(), w.TotalVolume())
		return nil
	},
}

var workoutDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Throw away the workout in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Workouts.Discard(cmd.Context()); err != nil {
			if errors.Is(err, storage.ErrNoActiveWorkout) {
				return fmt.Errorf("no workout in progress")
			}
			return fmt.Errorf("failed to discard workout: %w", err)
		}
		color.Yellow("✗ Discarded workout")
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List completed workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var workouts []models.Workout
		if workoutDate != "" {
			day, err := parseDay(workoutDate)
			if err != nil {
				return err
			}
			workouts = svc.Workouts.OnDay(cmd.Context(), day)
		} else {
			workouts = svc.Workouts.List(cmd.Context())
		}

		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}
		if workoutLimit > 0 && len(workouts) > workoutLimit {
			workouts = workouts[:workoutLimit]
		}
		for _, w := range workouts {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(w.ID)),
				faint.Sprint(w.Date.Format("2006-01-02 15:04")),
				padRight(truncate(w.DisplayName(), 24), 24),
				faint.Sprintf("%d sets, %.0f vol", w.TotalSets(), w.TotalVolume()))
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a completed workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.Workouts.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}
		printWorkout(w)
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a completed workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.Workouts.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}
		if err := svc.Workouts.Delete(cmd.Context(), w.ID); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		color.Yellow("✗ Deleted %s", w.DisplayName())
		return nil
	},
}

func init() {
	workoutStartCmd.Flags().StringVarP(&workoutName, "name", "n", "", "workout name")
	workoutStartCmd.Flags().StringVarP(&workoutTemplate, "template", "t", "", "template ID or prefix")
	workoutSetCmd.Flags().BoolVarP(&workoutAppend, "append", "a", false, "append instead of replacing sets")
	workoutListCmd.Flags().StringVar(&workoutDate, "date", "", "only workouts on this day (YYYY-MM-DD, today, yesterday)")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "l", 20, "max number of results")

	workoutCmd.AddCommand(workoutStartCmd)
	workoutCmd.AddCommand(workoutStatusCmd)
	workoutCmd.AddCommand(workoutAddExerciseCmd)
	workoutCmd.AddCommand(workoutRemoveExerciseCmd)
	workoutCmd.AddCommand(workoutSetCmd)
	workoutCmd.AddCommand(workoutNotesCmd)
	workoutCmd.AddCommand(workoutRenameCmd)
	workoutCmd.AddCommand(workoutCompleteCmd)
	workoutCmd.AddCommand(workoutDiscardCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
