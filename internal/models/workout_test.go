// ABOUTME: Tests for Workout, WorkoutExercise and WorkoutTemplate models.
// ABOUTME: Validates constructors, builder methods and derived totals.
package models

import (
	"testing"
	"time"
)

func TestNewWorkout(t *testing.T) {
	w := NewWorkout()

	if w.ID == "" {
		t.Error("expected ID to be set")
	}
	if w.Date.IsZero() {
		t.Error("expected Date to be set")
	}
	if w.Exercises == nil {
		t.Error("expected Exercises to be non-nil")
	}
	if w.IsCompleted {
		t.Error("new workout should not be completed")
	}
}

func TestWorkoutDisplayName(t *testing.T) {
	date := time.Date(2025, 3, 7, 18, 0, 0, 0, time.Local)
	w := NewWorkout().WithDate(date)
	if got := w.DisplayName(); got != "Workout Mar 7" {
		t.Errorf("DisplayName() = %q, want %q", got, "Workout Mar 7")
	}

	w.WithName("Leg Day")
	if got := w.DisplayName(); got != "Leg Day" {
		t.Errorf("DisplayName() = %q, want %q", got, "Leg Day")
	}
}

func TestWorkoutTotals(t *testing.T) {
	w := NewWorkout()
	w.Exercises = []WorkoutExercise{
		{
			Exercise: Exercise{ID: "bench-press", Name: "Bench Press"},
			Sets: []ExerciseSet{
				{Weight: 100, Reps: 5, Completed: true},
				{Weight: 100, Reps: 5, Completed: false},
			},
		},
		{
			Exercise: Exercise{ID: "pull-up", Name: "Pull Up"},
			Sets:     []ExerciseSet{{Weight: 0, Reps: 10, Completed: true}},
		},
	}

	if got := w.TotalSets(); got != 3 {
		t.Errorf("TotalSets() = %d, want 3", got)
	}
	if got := w.TotalVolume(); got != 500 {
		t.Errorf("TotalVolume() = %f, want 500", got)
	}
	if got := w.Exercises[0].CompletedSets(); got != 1 {
		t.Errorf("CompletedSets() = %d, want 1", got)
	}
}

func TestNewWorkoutTemplate(t *testing.T) {
	tmpl := NewWorkoutTemplate("Push Day", []Exercise{{ID: "bench-press", Name: "Bench Press"}}).
		WithDescription("chest, shoulders, triceps")

	if tmpl.ID == "" {
		t.Error("expected ID to be set")
	}
	if len(tmpl.Exercises) != 1 {
		t.Errorf("expected 1 exercise, got %d", len(tmpl.Exercises))
	}
	if tmpl.Description == nil {
		t.Error("expected description to be set")
	}
}
