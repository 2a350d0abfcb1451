// ABOUTME: Workout, WorkoutExercise, ExerciseSet and WorkoutTemplate models.
// ABOUTME: A workout embeds value copies of the exercises it used.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseSet is a single set of an exercise. It has no lifecycle of its own.
type ExerciseSet struct {
	Weight    float64 `json:"weight" yaml:"weight"`
	Reps      int     `json:"reps" yaml:"reps"`
	Completed bool    `json:"completed" yaml:"completed"`
}

// Volume returns weight times reps for the set.
func (s ExerciseSet) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// WorkoutExercise is one exercise performed within a workout.
type WorkoutExercise struct {
	Exercise Exercise      `json:"exercise" yaml:"exercise"`
	Sets     []ExerciseSet `json:"sets" yaml:"sets"`
	Notes    *string       `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// CompletedSets returns how many sets are marked completed.
func (we WorkoutExercise) CompletedSets() int {
	n := 0
	for _, s := range we.Sets {
		if s.Completed {
			n++
		}
	}
	return n
}

// Workout represents a training session. An in-progress workout lives in the
// active slot; completed workouts live in the workouts collection.
type Workout struct {
	ID          string            `json:"id" yaml:"id"`
	Name        *string           `json:"name,omitempty" yaml:"name,omitempty"`
	Date        time.Time         `json:"date" yaml:"date"`
	Exercises   []WorkoutExercise `json:"exercises" yaml:"exercises"`
	IsCompleted bool              `json:"is_completed" yaml:"is_completed"`
}

// NewWorkout creates an empty workout with a generated ID and the current time.
func NewWorkout() *Workout {
	return &Workout{
		ID:        uuid.NewString(),
		Date:      time.Now(),
		Exercises: []WorkoutExercise{},
	}
}

// WithName sets the workout name.
func (w *Workout) WithName(name string) *Workout {
	w.Name = &name
	return w
}

// WithDate sets a custom workout date.
func (w *Workout) WithDate(t time.Time) *Workout {
	w.Date = t
	return w
}

// DisplayName returns the workout name or a fallback based on its date.
func (w Workout) DisplayName() string {
	if w.Name != nil && *w.Name != "" {
		return *w.Name
	}
	return "Workout " + w.Date.Format("Jan 2")
}

// TotalSets counts all sets across exercises.
func (w Workout) TotalSets() int {
	n := 0
	for _, we := range w.Exercises {
		n += len(we.Sets)
	}
	return n
}

// TotalVolume sums weight x reps over completed sets.
func (w Workout) TotalVolume() float64 {
	var v float64
	for _, we := range w.Exercises {
		for _, s := range we.Sets {
			if s.Completed {
				v += s.Volume()
			}
		}
	}
	return v
}

// RecordID implements storage.Record.
func (w Workout) RecordID() string { return w.ID }

// OccurredAt implements calendar.Dated.
func (w Workout) OccurredAt() time.Time { return w.Date }

// WorkoutTemplate is a named, reusable list of exercises without sets.
type WorkoutTemplate struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Exercises   []Exercise `json:"exercises" yaml:"exercises"`
	Description *string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewWorkoutTemplate creates a template with a generated ID.
func NewWorkoutTemplate(name string, exercises []Exercise) *WorkoutTemplate {
	return &WorkoutTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		Exercises: exercises,
	}
}

// WithDescription sets the template description.
func (t *WorkoutTemplate) WithDescription(desc string) *WorkoutTemplate {
	t.Description = &desc
	return t
}

// RecordID implements storage.Record.
func (t WorkoutTemplate) RecordID() string { return t.ID }
