// ABOUTME: Proportional rescaling of ingredient and meal macros.
// ABOUTME: Handles weight edits and meal portion multipliers.
package nutrition

import (
	"errors"
	"fmt"
	"math"

	"github.com/harperreed/fitlog/internal/models"
)

var (
	// ErrZeroWeight is returned when rescaling an ingredient whose current
	// weight is zero, since the ratio is undefined.
	ErrZeroWeight = errors.New("cannot rescale an ingredient with zero weight")

	// ErrInvalidWeight is returned for negative or non-finite weights.
	ErrInvalidWeight = errors.New("weight must be a non-negative number")

	// ErrMultiplierTooSmall is returned when a portion multiplier is below 1.
	ErrMultiplierTooSmall = errors.New("portion multiplier must be at least 1")
)

// RescaleIngredient returns a copy of ing with weight set to newWeight and
// every defined macro multiplied by newWeight/ing.Weight. Calories round to a
// whole number, protein/carbs/fat to one decimal. Fields absent before stay
// absent. Rescaling to the current weight returns the ingredient unchanged.
func RescaleIngredient(ing models.Ingredient, newWeight float64) (models.Ingredient, error) {
	if !validWeight(newWeight) {
		return ing, fmt.Errorf("%w: %v", ErrInvalidWeight, newWeight)
	}
	if newWeight == ing.Weight {
		return ing.Clone(), nil
	}
	if ing.Weight == 0 {
		return ing, ErrZeroWeight
	}

	out := ing.Clone()
	out.Weight = newWeight
	if out.Macros != nil {
		scaled := ScaleMacros(*out.Macros, newWeight/ing.Weight)
		out.Macros = &scaled
	}
	return out, nil
}

// RescaleMeal returns a copy of meal rescaled from its current multiplier
// (default 1) to newMultiplier. Each ingredient's weight and macros are
// multiplied by the ratio; zero-weight ingredients are left as they are.
func RescaleMeal(meal models.MealEntry, newMultiplier float64) (models.MealEntry, error) {
	if math.IsNaN(newMultiplier) || math.IsInf(newMultiplier, 0) || newMultiplier < 1 {
		return meal, fmt.Errorf("%w: %v", ErrMultiplierTooSmall, newMultiplier)
	}

	ratio := newMultiplier / meal.EffectiveMultiplier()
	out := meal.Clone()
	out.Multiplier = models.Float(newMultiplier)
	if ratio == 1 {
		return out, nil
	}

	// Macros use the exact ratio; only the stored weight is rounded.
	for i, ing := range out.Ingredients {
		if ing.Weight == 0 {
			continue
		}
		out.Ingredients[i].Weight = roundTo(ing.Weight*ratio, 1)
		if ing.Macros != nil {
			scaled := ScaleMacros(*ing.Macros, ratio)
			out.Ingredients[i].Macros = &scaled
		}
	}
	return out, nil
}

// ScaleMacros multiplies every defined field by ratio and applies display
// rounding.
func ScaleMacros(m models.Macros, ratio float64) models.Macros {
	return models.Macros{
		Calories: scaleField(m.Calories, ratio, 0),
		Protein:  scaleField(m.Protein, ratio, 1),
		Carbs:    scaleField(m.Carbs, ratio, 1),
		Fat:      scaleField(m.Fat, ratio, 1),
	}
}

func scaleField(v *float64, ratio float64, decimals int) *float64 {
	if v == nil {
		return nil
	}
	return models.Float(roundTo(*v*ratio, decimals))
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}
