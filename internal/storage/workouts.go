// ABOUTME: Workout service covering the active workout slot and completed history.
// ABOUTME: Active slot transitions are serialized by a mutex within the process.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/harperreed/fitlog/internal/kvstore"
	"github.com/harperreed/fitlog/internal/models"
)

// WorkoutService manages the in-progress workout and completed workouts.
// Two processes sharing a store can still race on the active slot; the
// last write wins.
type WorkoutService struct {
	mu        sync.Mutex
	active    *Slot[models.Workout]
	col       *Collection[models.Workout]
	templates *TemplateService
	now       func() time.Time
}

// NewWorkoutService creates a workout service over store.
func NewWorkoutService(store kvstore.Store, templates *TemplateService) *WorkoutService {
	return &WorkoutService{
		active:    NewSlot[models.Workout](store, kvstore.KeyActiveWorkout),
		col:       NewCollection[models.Workout](store, kvstore.KeyWorkouts),
		templates: templates,
		now:       time.Now,
	}
}

// Active returns the in-progress workout, or nil.
func (s *WorkoutService) Active(ctx context.Context) *models.Workout {
	return s.active.Peek(ctx)
}

// Start begins an empty workout. name may be empty.
func (s *WorkoutService) Start(ctx context.Context, name string) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := models.NewWorkout().WithDate(s.now())
	if n := strings.TrimSpace(name); n != "" {
		w.WithName(n)
	}
	if err := s.startLocked(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// StartFromTemplate begins a workout with the template's exercises and no sets.
func (s *WorkoutService) StartFromTemplate(ctx context.Context, templateID string) (*models.Workout, error) {
	t, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w := models.NewWorkout().WithDate(s.now()).WithName(t.Name)
	for _, e := range t.Exercises {
		w.Exercises = append(w.Exercises, models.WorkoutExercise{
			Exercise: e,
			Sets:     []models.ExerciseSet{},
		})
	}
	if err := s.startLocked(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WorkoutService) startLocked(ctx context.Context, w *models.Workout) error {
	current, err := s.active.Load(ctx)
	if err != nil {
		return err
	}
	if current != nil {
		return ErrActiveWorkoutExists
	}
	return s.active.Put(ctx, w)
}

// editActive loads the active workout, applies fn and writes it back.
func (s *WorkoutService) editActive(ctx context.Context, fn func(w *models.Workout) error) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.active.Load(ctx)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNoActiveWorkout
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.active.Put(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func checkIndex(w *models.Workout, index int) error {
	if index < 0 || index >= len(w.Exercises) {
		return invalid("index", fmt.Sprintf("exercise %d does not exist (workout has %d)", index+1, len(w.Exercises)))
	}
	return nil
}

func validateSets(sets []models.ExerciseSet) error {
	for i, set := range sets {
		if set.Weight < 0 {
			return invalid("weight", fmt.Sprintf("set %d has a negative weight", i+1))
		}
		if set.Reps < 0 {
			return invalid("reps", fmt.Sprintf("set %d has negative reps", i+1))
		}
	}
	return nil
}

// AddExercise appends an exercise with no sets to the active workout.
func (s *WorkoutService) AddExercise(ctx context.Context, e models.Exercise) (*models.Workout, error) {
	return s.editActive(ctx, func(w *models.Workout) error {
		w.Exercises = append(w.Exercises, models.WorkoutExercise{
			Exercise: e,
			Sets:     []models.ExerciseSet{},
		})
		return nil
	})
}

// RemoveExercise drops the exercise at index from the active workout.
func (s *WorkoutService) RemoveExercise(ctx context.Context, index int) (*models.Workout, error) {
	return s.editActive(ctx, func(w *models.Workout) error {
		if err := checkIndex(w, index); err != nil {
			return err
		}
		w.Exercises = append(w.Exercises[:index], w.Exercises[index+1:]...)
		return nil
	})
}

// UpdateSets replaces the sets of the exercise at index.
func (s *WorkoutService) UpdateSets(ctx context.Context, index int, sets []models.ExerciseSet) (*models.Workout, error) {
	if err := validateSets(sets); err != nil {
		return nil, err
	}
	return s.editActive(ctx, func(w *models.Workout) error {
		if err := checkIndex(w, index); err != nil {
			return err
		}
		w.Exercises[index].Sets = append([]models.ExerciseSet{}, sets...)
		return nil
	})
}

// AddSet appends one set to the exercise at index.
func (s *WorkoutService) AddSet(ctx context.Context, index int, set models.ExerciseSet) (*models.Workout, error) {
	if err := validateSets([]models.ExerciseSet{set}); err != nil {
		return nil, err
	}
	return s.editActive(ctx, func(w *models.Workout) error {
		if err := checkIndex(w, index); err != nil {
			return err
		}
		w.Exercises[index].Sets = append(w.Exercises[index].Sets, set)
		return nil
	})
}

// UpdateNotes sets or clears the notes of the exercise at index.
func (s *WorkoutService) UpdateNotes(ctx context.Context, index int, notes string) (*models.Workout, error) {
	return s.editActive(ctx, func(w *models.Workout) error {
		if err := checkIndex(w, index); err != nil {
			return err
		}
		if strings.TrimSpace(notes) == "" {
			w.Exercises[index].Notes = nil
		} else {
			w.Exercises[index].Notes = &notes
		}
		return nil
	})
}

// Rename sets or clears the active workout name.
func (s *WorkoutService) Rename(ctx context.Context, name string) (*models.Workout, error) {
	return s.editActive(ctx, func(w *models.Workout) error {
		if n := strings.TrimSpace(name); n != "" {
			w.WithName(n)
		} else {
			w.Name = nil
		}
		return nil
	})
}

// Complete marks the active workout completed, appends it to the history and
// clears the slot.
func (s *WorkoutService) Complete(ctx context.Context) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.active.Load(ctx)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNoActiveWorkout
	}
	if len(w.Exercises) == 0 {
		return nil, invalid("exercises", "cannot complete a workout with no exercises")
	}

	w.IsCompleted = true
	if err := s.col.Append(ctx, *w); err != nil {
		return nil, err
	}
	if err := s.active.Clear(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Discard clears the active slot without saving.
func (s *WorkoutService) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.active.Load(ctx)
	if err != nil {
		return err
	}
	if w == nil {
		return ErrNoActiveWorkout
	}
	return s.active.Clear(ctx)
}

// List returns completed workouts, newest first.
func (s *WorkoutService) List(ctx context.Context) []models.Workout {
	items := s.col.All(ctx)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items
}

// Get finds a completed workout by id or id prefix.
func (s *WorkoutService) Get(ctx context.Context, idOrPrefix string) (*models.Workout, error) {
	w, err := s.col.Find(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Update replaces a completed workout. Returns ErrNotFound when the id is unknown.
func (s *WorkoutService) Update(ctx context.Context, w models.Workout) error {
	for _, we := range w.Exercises {
		if err := validateSets(we.Sets); err != nil {
			return err
		}
	}
	return s.col.Replace(ctx, w)
}

// Delete removes a completed workout; an unknown id is a no-op.
func (s *WorkoutService) Delete(ctx context.Context, id string) error {
	_, err := s.col.Remove(ctx, id)
	return err
}

// OnDay returns completed workouts on the calendar day of day.
func (s *WorkoutService) OnDay(ctx context.Context, day time.Time) []models.Workout {
	return calendar.ByCalendarDay(s.List(ctx), day)
}

// Marked returns the calendar marks for every completed workout.
func (s *WorkoutService) Marked(ctx context.Context) map[string]calendar.Mark {
	return calendar.MarkedDates(s.col.All(ctx))
}
