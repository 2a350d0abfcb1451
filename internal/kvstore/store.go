// ABOUTME: Key-value store contract for whole-collection persistence.
// ABOUTME: Declares the fixed collection keys and the not-found sentinel.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Keys for every collection the app persists. Each key holds one JSON
// document.
const (
	KeyExercises     = "exercises"
	KeyTemplates     = "workout_templates"
	KeyWorkouts      = "workouts"
	KeyActiveWorkout = "active_workout"
	KeyMeals         = "meals"
	KeyAPIKey        = "settings:openai_api_key"
	KeySelectedDate  = "history:selected_date"
)

// AllKeys lists every key the app writes, for migration between backends.
var AllKeys = []string{
	KeyExercises,
	KeyTemplates,
	KeyWorkouts,
	KeyActiveWorkout,
	KeyMeals,
	KeyAPIKey,
	KeySelectedDate,
}

// Store is a string-keyed blob store. Implementations need not provide
// transactions; callers read, modify and write whole values.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}
