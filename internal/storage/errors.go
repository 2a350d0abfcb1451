// ABOUTME: Error values returned by the collection services.
// ABOUTME: Validation errors carry the offending field for user-facing messages.
package storage

import (
	"errors"
	"fmt"

	"github.com/harperreed/fitlog/internal/nutrition"
)

var (
	// ErrNotFound is returned when no record matches an id or id prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousID is returned when an id prefix matches several records.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
	// ErrActiveWorkoutExists is returned when starting a workout while one is in progress.
	ErrActiveWorkoutExists = errors.New("a workout is already in progress")
	// ErrNoActiveWorkout is returned by active-workout edits when none is in progress.
	ErrNoActiveWorkout = errors.New("no workout in progress")
	// ErrBuiltInExercise is returned when deleting a built-in exercise.
	ErrBuiltInExercise = errors.New("built-in exercises cannot be deleted")
)

// ValidationError reports malformed user input. Nothing is persisted when one
// is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is a user input error, including the
// scaling errors from the nutrition package.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, nutrition.ErrZeroWeight) ||
		errors.Is(err, nutrition.ErrInvalidWeight) ||
		errors.Is(err, nutrition.ErrMultiplierTooSmall)
}
