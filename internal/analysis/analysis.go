// ABOUTME: Structured meal analysis returned by the vision model.
// ABOUTME: Converts an analysis into a MealEntry ready to be saved.
package analysis

import (
	"strings"
	"time"

	"github.com/harperreed/fitlog/internal/models"
)

// AnalyzedIngredient is one ingredient as estimated by the model. Weight is
// in grams; macros are totals for that weight.
type AnalyzedIngredient struct {
	Name     string   `json:"name"`
	Weight   float64  `json:"weight"`
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// Analysis is the model's description of a meal.
type Analysis struct {
	Name        string               `json:"name"`
	Ingredients []AnalyzedIngredient `json:"ingredients"`
}

// ToMeal builds a meal with fresh ids from the analysis. imageURI may be empty.
func (a *Analysis) ToMeal(date time.Time, imageURI string) models.MealEntry {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = "Meal"
	}
	meal := models.NewMealEntry(name).WithDate(date)
	if imageURI != "" {
		meal.WithImageURI(imageURI)
	}

	for _, ai := range a.Ingredients {
		ing := models.NewIngredient(strings.TrimSpace(ai.Name), ai.Weight)
		m := models.Macros{
			Calories: ai.Calories,
			Protein:  ai.Protein,
			Carbs:    ai.Carbs,
			Fat:      ai.Fat,
		}
		if !m.IsEmpty() {
			ing.WithMacros(m.Clone())
		}
		meal.WithIngredients(*ing)
	}
	return *meal
}
