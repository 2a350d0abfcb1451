// ABOUTME: Exercise library service with a seeded built-in list.
// ABOUTME: Custom exercises can be edited and deleted; built-ins cannot be deleted.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlog/internal/kvstore"
	"github.com/harperreed/fitlog/internal/models"
)

type builtIn struct {
	id       string
	name     string
	category models.Category
}

var builtInExercises = []builtIn{
	{"builtin-bench-press", "Bench Press", models.CategoryChest},
	{"builtin-incline-bench-press", "Incline Bench Press", models.CategoryChest},
	{"builtin-dumbbell-bench-press", "Dumbbell Bench Press", models.CategoryChest},
	{"builtin-chest-fly", "Chest Fly", models.CategoryChest},
	{"builtin-push-up", "Push-Up", models.CategoryChest},
	{"builtin-deadlift", "Deadlift", models.CategoryBack},
	{"builtin-pull-up", "Pull-Up", models.CategoryBack},
	{"builtin-barbell-row", "Barbell Row", models.CategoryBack},
	{"builtin-lat-pulldown", "Lat Pulldown", models.CategoryBack},
	{"builtin-seated-cable-row", "Seated Cable Row", models.CategoryBack},
	{"builtin-squat", "Squat", models.CategoryLegs},
	{"builtin-front-squat", "Front Squat", models.CategoryLegs},
	{"builtin-leg-press", "Leg Press", models.CategoryLegs},
	{"builtin-romanian-deadlift", "Romanian Deadlift", models.CategoryLegs},
	{"builtin-lunge", "Lunge", models.CategoryLegs},
	{"builtin-calf-raise", "Calf Raise", models.CategoryLegs},
	{"builtin-overhead-press", "Overhead Press", models.CategoryShoulders},
	{"builtin-lateral-raise", "Lateral Raise", models.CategoryShoulders},
	{"builtin-face-pull", "Face Pull", models.CategoryShoulders},
	{"builtin-bicep-curl", "Bicep Curl", models.CategoryArms},
	{"builtin-hammer-curl", "Hammer Curl", models.CategoryArms},
	{"builtin-tricep-pushdown", "Tricep Pushdown", models.CategoryArms},
	{"builtin-close-grip-bench-press", "Close Grip Bench Press", models.CategoryArms},
	{"builtin-plank", "Plank", models.CategoryCore},
	{"builtin-hanging-leg-raise", "Hanging Leg Raise", models.CategoryCore},
	{"builtin-crunch", "Crunch", models.CategoryCore},
	{"builtin-running", "Running", models.CategoryCardio},
	{"builtin-cycling", "Cycling", models.CategoryCardio},
	{"builtin-rowing", "Rowing", models.CategoryCardio},
	{"builtin-burpee", "Burpee", models.CategoryFullBody},
	{"builtin-kettlebell-swing", "Kettlebell Swing", models.CategoryFullBody},
}

// BuiltInExercises returns a fresh copy of the seed list.
func BuiltInExercises() []models.Exercise {
	out := make([]models.Exercise, 0, len(builtInExercises))
	for _, b := range builtInExercises {
		out = append(out, models.Exercise{
			ID:       b.id,
			Name:     b.name,
			Category: b.category,
		})
	}
	return out
}

// ExerciseService manages the exercise library.
type ExerciseService struct {
	col *Collection[models.Exercise]
}

// NewExerciseService creates an exercise service over store.
func NewExerciseService(store kvstore.Store) *ExerciseService {
	return &ExerciseService{col: NewCollection[models.Exercise](store, kvstore.KeyExercises)}
}

// Seed writes the built-in list when the collection has never been written.
// It reports whether anything was written.
func (s *ExerciseService) Seed(ctx context.Context) (bool, error) {
	exists, err := s.col.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.col.Save(ctx, BuiltInExercises()); err != nil {
		return false, fmt.Errorf("seed exercises: %w", err)
	}
	return true, nil
}

// List returns all exercises sorted by category then name, seeding the
// built-ins on first use.
func (s *ExerciseService) List(ctx context.Context) []models.Exercise {
	if _, err := s.Seed(ctx); err != nil {
		log.Warn("seeding exercises failed", "err", err)
	}
	items := s.col.All(ctx)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return categoryOrder(items[i].Category) < categoryOrder(items[j].Category)
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items
}

func categoryOrder(c models.Category) int {
	for i, cat := range models.AllCategories {
		if cat == c {
			return i
		}
	}
	return len(models.AllCategories)
}

// Get finds an exercise by id or id prefix.
func (s *ExerciseService) Get(ctx context.Context, idOrPrefix string) (*models.Exercise, error) {
	if _, err := s.Seed(ctx); err != nil {
		return nil, err
	}
	e, err := s.col.Find(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Search filters exercises by a case-insensitive name/description substring
// and, optionally, a category.
func (s *ExerciseService) Search(ctx context.Context, query string, category *models.Category) []models.Exercise {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Exercise{}
	for _, e := range s.List(ctx) {
		if category != nil && e.Category != *category {
			continue
		}
		if q != "" && !matchesExercise(e, q) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesExercise(e models.Exercise, q string) bool {
	if strings.Contains(strings.ToLower(e.Name), q) {
		return true
	}
	return e.Description != nil && strings.Contains(strings.ToLower(*e.Description), q)
}

func validateExercise(e models.Exercise) error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("name", "exercise name is required")
	}
	if !models.IsValidCategory(string(e.Category)) {
		return invalid("category", fmt.Sprintf("unknown category %q", e.Category))
	}
	return nil
}

// Create adds a custom exercise.
func (s *ExerciseService) Create(ctx context.Context, name string, category models.Category, description string) (*models.Exercise, error) {
	e := models.NewExercise(strings.TrimSpace(name), category)
	if description != "" {
		e.WithDescription(description)
	}
	if err := validateExercise(*e); err != nil {
		return nil, err
	}
	if _, err := s.Seed(ctx); err != nil {
		return nil, err
	}
	if err := s.col.Append(ctx, *e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces a stored exercise. Returns ErrNotFound when the id is unknown.
func (s *ExerciseService) Update(ctx context.Context, e models.Exercise) error {
	if err := validateExercise(e); err != nil {
		return err
	}
	if _, err := s.Seed(ctx); err != nil {
		return err
	}
	return s.col.Replace(ctx, e)
}

// Delete removes a custom exercise. Built-ins are refused; an unknown id is a
// no-op.
func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Seed(ctx); err != nil {
		return err
	}
	for _, e := range s.col.All(ctx) {
		if e.ID == id && !e.IsCustom {
			return fmt.Errorf("%s: %w", e.Name, ErrBuiltInExercise)
		}
	}
	_, err := s.col.Remove(ctx, id)
	return err
}
