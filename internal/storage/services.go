// ABOUTME: Bundles every collection service over one key-value store.
// ABOUTME: Front ends (CLI, MCP, HTTP) share a single Services value.
package storage

import (
	"github.com/harperreed/fitlog/internal/kvstore"
)

// Services groups the domain services that share a store.
type Services struct {
	Store     kvstore.Store
	Exercises *ExerciseService
	Templates *TemplateService
	Workouts  *WorkoutService
	Meals     *MealService
	Settings  *SettingsService
}

// NewServices wires every service to store.
func NewServices(store kvstore.Store) *Services {
	templates := NewTemplateService(store)
	return &Services{
		Store:     store,
		Exercises: NewExerciseService(store),
		Templates: templates,
		Workouts:  NewWorkoutService(store, templates),
		Meals:     NewMealService(store),
		Settings:  NewSettingsService(store),
	}
}

// Close closes the underlying store.
func (s *Services) Close() error {
	return s.Store.Close()
}
