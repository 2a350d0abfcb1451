// ABOUTME: Macro aggregation over ingredients and meals.
// ABOUTME: Absent fields are skipped, never coerced to zero, until display.
package nutrition

import (
	"github.com/harperreed/fitlog/internal/models"
)

// AggregateMacros sums each macro field across the ingredients that define it.
// Ingredients without macros, or without a given field, contribute nothing to
// that field. A field no ingredient defines stays nil.
func AggregateMacros(ingredients []models.Ingredient) models.Macros {
	var total models.Macros
	for _, ing := range ingredients {
		if ing.Macros == nil {
			continue
		}
		total = addMacros(total, *ing.Macros)
	}
	return total
}

// SumMacros folds already-aggregated totals the same way AggregateMacros folds
// ingredients, so per-meal totals can be re-aggregated into a day total.
func SumMacros(parts ...models.Macros) models.Macros {
	var total models.Macros
	for _, p := range parts {
		total = addMacros(total, p)
	}
	return total
}

// MealMacros returns the totals for a single meal.
func MealMacros(meal models.MealEntry) models.Macros {
	return AggregateMacros(meal.Ingredients)
}

// MealTotals aggregates every ingredient of every meal.
func MealTotals(meals []models.MealEntry) models.Macros {
	parts := make([]models.Macros, 0, len(meals))
	for _, m := range meals {
		parts = append(parts, MealMacros(m))
	}
	return SumMacros(parts...)
}

func addMacros(acc, m models.Macros) models.Macros {
	return models.Macros{
		Calories: addField(acc.Calories, m.Calories),
		Protein:  addField(acc.Protein, m.Protein),
		Carbs:    addField(acc.Carbs, m.Carbs),
		Fat:      addField(acc.Fat, m.Fat),
	}
}

func addField(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	if acc == nil {
		return models.Float(*v)
	}
	return models.Float(*acc + *v)
}

// MacroTotals is the display form of Macros with unknown fields read as zero.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Totals coerces absent fields to zero for arithmetic and display.
func Totals(m models.Macros) MacroTotals {
	return MacroTotals{
		Calories: valueOr0(m.Calories),
		Protein:  valueOr0(m.Protein),
		Carbs:    valueOr0(m.Carbs),
		Fat:      valueOr0(m.Fat),
	}
}

func valueOr0(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
