// ABOUTME: Tests for macro aggregation.
// ABOUTME: Covers absent-vs-zero handling, ordering and re-aggregation.
package nutrition

import (
	"math"
	"testing"

	"github.com/harperreed/fitlog/internal/models"
)

func ing(name string, weight float64, m *models.Macros) models.Ingredient {
	return models.Ingredient{ID: name, Name: name, Weight: weight, Macros: m}
}

func f(v float64) *float64 { return models.Float(v) }

func sampleIngredients() []models.Ingredient {
	return []models.Ingredient{
		ing("rice", 100, &models.Macros{Calories: f(130), Protein: f(2.5), Carbs: f(28), Fat: f(0.25)}),
		ing("chicken", 150, &models.Macros{Calories: f(247.5), Protein: f(46.5)}),
		ing("mystery sauce", 20, nil),
		ing("olive oil", 10, &models.Macros{Calories: f(88), Fat: f(10)}),
		ing("water", 250, &models.Macros{Calories: f(0)}),
	}
}

func macrosEqual(a, b models.Macros) bool {
	eq := func(x, y *float64) bool {
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return math.Abs(*x-*y) < 1e-9
	}
	return eq(a.Calories, b.Calories) && eq(a.Protein, b.Protein) && eq(a.Carbs, b.Carbs) && eq(a.Fat, b.Fat)
}

func TestAggregateMacros(t *testing.T) {
	got := AggregateMacros(sampleIngredients())

	if got.Calories == nil || *got.Calories != 465.5 {
		t.Errorf("Calories = %v, want 465.5", got.Calories)
	}
	if got.Protein == nil || *got.Protein != 49 {
		t.Errorf("Protein = %v, want 49", got.Protein)
	}
	if got.Carbs == nil || *got.Carbs != 28 {
		t.Errorf("Carbs = %v, want 28 (only rice defines carbs)", got.Carbs)
	}
	if got.Fat == nil || *got.Fat != 10.25 {
		t.Errorf("Fat = %v, want 10.25", got.Fat)
	}
}

func TestAggregateMacrosNoData(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []models.Ingredient
	}{
		{"nil list", nil},
		{"no macros", []models.Ingredient{ing("a", 10, nil), ing("b", 20, nil)}},
		{"empty macros", []models.Ingredient{ing("a", 10, &models.Macros{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateMacros(tt.ingredients); !got.IsEmpty() {
				t.Errorf("expected all fields nil, got %+v", got)
			}
		})
	}
}

func TestAggregateMacrosZeroIsDefined(t *testing.T) {
	got := AggregateMacros([]models.Ingredient{ing("water", 250, &models.Macros{Calories: f(0)})})

	if got.Calories == nil {
		t.Fatal("a zero contribution must produce a defined total")
	}
	if *got.Calories != 0 {
		t.Errorf("Calories = %f, want 0", *got.Calories)
	}
	if got.Protein != nil {
		t.Error("Protein should stay absent")
	}
}

func TestAggregateMacrosOrderInvariant(t *testing.T) {
	list := sampleIngredients()
	want := AggregateMacros(list)

	reversed := make([]models.Ingredient, len(list))
	for i := range list {
		reversed[len(list)-1-i] = list[i]
	}
	rotated := append(append([]models.Ingredient{}, list[2:]...), list[:2]...)

	for name, perm := range map[string][]models.Ingredient{"reversed": reversed, "rotated": rotated} {
		if got := AggregateMacros(perm); !macrosEqual(got, want) {
			t.Errorf("%s: got %+v, want %+v", name, got, want)
		}
	}
}

func TestAggregateMacrosComposes(t *testing.T) {
	list := sampleIngredients()
	splits := [][]models.Ingredient{list[:1], list[1:3], list[3:]}

	var flat []models.Ingredient
	var parts []models.Macros
	for _, s := range splits {
		flat = append(flat, s...)
		parts = append(parts, AggregateMacros(s))
	}

	if got, want := SumMacros(parts...), AggregateMacros(flat); !macrosEqual(got, want) {
		t.Errorf("SumMacros(per-list) = %+v, AggregateMacros(flat) = %+v", got, want)
	}
}

func TestMealTotals(t *testing.T) {
	list := sampleIngredients()
	meals := []models.MealEntry{
		{ID: "m1", Name: "Lunch", Ingredients: list[:2]},
		{ID: "m2", Name: "Dinner", Ingredients: list[2:]},
		{ID: "m3", Name: "Empty"},
	}

	if got, want := MealTotals(meals), AggregateMacros(list); !macrosEqual(got, want) {
		t.Errorf("MealTotals = %+v, want %+v", got, want)
	}
}

func TestTotalsCoercesAbsentToZero(t *testing.T) {
	got := Totals(models.Macros{Calories: f(500)})
	want := MacroTotals{Calories: 500}
	if got != want {
		t.Errorf("Totals = %+v, want %+v", got, want)
	}
}
