// ABOUTME: Meal service for logging meals and editing ingredients and portions.
// ABOUTME: Weight and portion edits rescale macros through the nutrition package.
package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/harperreed/fitlog/internal/kvstore"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/nutrition"
)

// MealSource is anything that can be turned into a meal, such as an AI
// analysis result.
type MealSource interface {
	ToMeal(date time.Time, imageURI string) models.MealEntry
}

// IngredientUpdate lists the fields to change on an ingredient. Nil fields are
// left alone. When Weight changes and Macros is nil, macros are rescaled.
type IngredientUpdate struct {
	Name   *string        `json:"name,omitempty"`
	Weight *float64       `json:"weight,omitempty"`
	Macros *models.Macros `json:"macros,omitempty"`
}

// MealService manages logged meals.
type MealService struct {
	col *Collection[models.MealEntry]
}

// NewMealService creates a meal service over store.
func NewMealService(store kvstore.Store) *MealService {
	return &MealService{col: NewCollection[models.MealEntry](store, kvstore.KeyMeals)}
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validateMacros(m *models.Macros) error {
	if m == nil {
		return nil
	}
	fields := []struct {
		name string
		v    *float64
	}{
		{"calories", m.Calories},
		{"protein", m.Protein},
		{"carbs", m.Carbs},
		{"fat", m.Fat},
	}
	for _, f := range fields {
		if f.v != nil && !validNumber(*f.v) {
			return invalid(f.name, "must be a non-negative number")
		}
	}
	return nil
}

func validateIngredient(ing models.Ingredient) error {
	if strings.TrimSpace(ing.Name) == "" {
		return invalid("ingredient", "ingredient name is required")
	}
	if !validNumber(ing.Weight) {
		return invalid("weight", fmt.Sprintf("%s: weight must be a non-negative number", ing.Name))
	}
	return validateMacros(ing.Macros)
}

func validateMeal(m models.MealEntry) error {
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name", "meal name is required")
	}
	if len(m.Ingredients) == 0 {
		return invalid("ingredients", "a meal needs at least one ingredient")
	}
	for _, ing := range m.Ingredients {
		if err := validateIngredient(ing); err != nil {
			return err
		}
	}
	if m.Multiplier != nil && (*m.Multiplier < 1 || math.IsInf(*m.Multiplier, 0)) {
		return fmt.Errorf("%w: %v", nutrition.ErrMultiplierTooSmall, *m.Multiplier)
	}
	return nil
}

// List returns all meals, newest first.
func (s *MealService) List(ctx context.Context) []models.MealEntry {
	items := s.col.All(ctx)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items
}

// Get finds a meal by id or id prefix.
func (s *MealService) Get(ctx context.Context, idOrPrefix string) (*models.MealEntry, error) {
	m, err := s.col.Find(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create validates and stores meal. Missing ids are filled in.
func (s *MealService) Create(ctx context.Context, meal models.MealEntry) (*models.MealEntry, error) {
	meal.Name = strings.TrimSpace(meal.Name)
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	if meal.Date.IsZero() {
		meal.Date = time.Now()
	}
	for i := range meal.Ingredients {
		if meal.Ingredients[i].ID == "" {
			meal.Ingredients[i].ID = uuid.NewString()
		}
	}
	if err := validateMeal(meal); err != nil {
		return nil, err
	}
	if err := s.col.Append(ctx, meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

// CreateFromAnalysis stores the meal described by src.
func (s *MealService) CreateFromAnalysis(ctx context.Context, src MealSource, date time.Time, imageURI string) (*models.MealEntry, error) {
	return s.Create(ctx, src.ToMeal(date, imageURI))
}

// Update replaces a stored meal. Returns ErrNotFound when the id is unknown.
func (s *MealService) Update(ctx context.Context, meal models.MealEntry) error {
	if err := validateMeal(meal); err != nil {
		return err
	}
	return s.col.Replace(ctx, meal)
}

// Delete removes a meal; an unknown id is a no-op.
func (s *MealService) Delete(ctx context.Context, id string) error {
	_, err := s.col.Remove(ctx, id)
	return err
}

// OnDay returns meals on the calendar day of day, newest first.
func (s *MealService) OnDay(ctx context.Context, day time.Time) []models.MealEntry {
	return calendar.ByCalendarDay(s.List(ctx), day)
}

// Marked returns the calendar marks for every logged meal.
func (s *MealService) Marked(ctx context.Context) map[string]calendar.Mark {
	return calendar.MarkDays(s.col.All(ctx))
}

// DayTotals sums the macros of every meal on the calendar day of day.
func (s *MealService) DayTotals(ctx context.Context, day time.Time) nutrition.MacroTotals {
	return nutrition.Totals(nutrition.MealTotals(s.OnDay(ctx, day)))
}

// edit loads the meal with id, applies fn and writes the result back.
func (s *MealService) edit(ctx context.Context, id string, fn func(m *models.MealEntry) error) (*models.MealEntry, error) {
	m, err := s.col.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(&m); err != nil {
		return nil, err
	}
	if err := s.Update(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

func ingredientIndex(m *models.MealEntry, ingredientID string) (int, error) {
	for i, ing := range m.Ingredients {
		if ing.ID == ingredientID || (ingredientID != "" && strings.HasPrefix(ing.ID, ingredientID)) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("ingredient %s: %w", ingredientID, ErrNotFound)
}

// AddIngredient appends ing to the meal.
func (s *MealService) AddIngredient(ctx context.Context, mealID string, ing models.Ingredient) (*models.MealEntry, error) {
	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}
	return s.edit(ctx, mealID, func(m *models.MealEntry) error {
		m.Ingredients = append(m.Ingredients, ing)
		return nil
	})
}

// UpdateIngredient applies upd to one ingredient of the meal.
func (s *MealService) UpdateIngredient(ctx context.Context, mealID, ingredientID string, upd IngredientUpdate) (*models.MealEntry, error) {
	return s.edit(ctx, mealID, func(m *models.MealEntry) error {
		i, err := ingredientIndex(m, ingredientID)
		if err != nil {
			return err
		}
		ing := m.Ingredients[i]

		if upd.Name != nil {
			ing.Name = strings.TrimSpace(*upd.Name)
		}
		switch {
		case upd.Macros != nil:
			macros := upd.Macros.Clone()
			ing.Macros = &macros
			if upd.Weight != nil {
				ing.Weight = *upd.Weight
			}
		case upd.Weight != nil:
			scaled, err := nutrition.RescaleIngredient(ing, *upd.Weight)
			if err != nil {
				return err
			}
			ing = scaled
		}

		if err := validateIngredient(ing); err != nil {
			return err
		}
		m.Ingredients[i] = ing
		return nil
	})
}

// RemoveIngredient drops one ingredient. The last ingredient cannot be removed.
func (s *MealService) RemoveIngredient(ctx context.Context, mealID, ingredientID string) (*models.MealEntry, error) {
	return s.edit(ctx, mealID, func(m *models.MealEntry) error {
		i, err := ingredientIndex(m, ingredientID)
		if err != nil {
			return err
		}
		m.Ingredients = append(m.Ingredients[:i], m.Ingredients[i+1:]...)
		return nil
	})
}

// SetMultiplier rescales the meal's portion to multiplier.
func (s *MealService) SetMultiplier(ctx context.Context, mealID string, multiplier float64) (*models.MealEntry, error) {
	return s.edit(ctx, mealID, func(m *models.MealEntry) error {
		scaled, err := nutrition.RescaleMeal(*m, multiplier)
		if err != nil {
			return err
		}
		*m = scaled
		return nil
	})
}
