// ABOUTME: Tests for the combined day history and month overview.
// ABOUTME: Covers bucketing of workouts and meals plus macro totals.
package calendar

import (
	"testing"
	"time"

	"github.com/harperreed/fitlog/internal/models"
)

func TestDayHistory(t *testing.T) {
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.Local)
	workouts := []models.Workout{
		{ID: "w1", Date: day.Add(7 * time.Hour)},
		{ID: "w2", Date: day.AddDate(0, 0, -1)},
	}
	meals := []models.MealEntry{
		{ID: "m1", Date: day.Add(12 * time.Hour), Ingredients: []models.Ingredient{
			{ID: "i1", Name: "rice", Weight: 100, Macros: &models.Macros{Calories: models.Float(130)}},
		}},
		{ID: "m2", Date: day.Add(19 * time.Hour), Ingredients: []models.Ingredient{
			{ID: "i2", Name: "steak", Weight: 200, Macros: &models.Macros{Calories: models.Float(500), Protein: models.Float(50)}},
		}},
		{ID: "m3", Date: day.AddDate(0, 0, 1)},
	}

	h := DayHistory(day, workouts, meals)
	if h.Date != "2025-05-10" {
		t.Errorf("Date = %s", h.Date)
	}
	if len(h.Workouts) != 1 || h.Workouts[0].ID != "w1" {
		t.Errorf("Workouts = %+v", h.Workouts)
	}
	if len(h.Meals) != 2 {
		t.Errorf("expected 2 meals, got %d", len(h.Meals))
	}
	if h.Totals.Calories != 630 || h.Totals.Protein != 50 || h.Totals.Carbs != 0 {
		t.Errorf("Totals = %+v", h.Totals)
	}
	if h.Macros.Carbs != nil {
		t.Error("carbs should stay unknown in raw macros")
	}
}

func TestMonthDays(t *testing.T) {
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.Local)
	workouts := []models.Workout{
		{ID: "w1", Date: time.Date(2025, 5, 3, 9, 0, 0, 0, time.Local)},
		{ID: "w2", Date: time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)},
	}
	meals := []models.MealEntry{
		{ID: "m1", Date: time.Date(2025, 5, 31, 20, 0, 0, 0, time.Local)},
	}

	days := MonthDays(day, workouts, meals)
	if len(days) != 2 {
		t.Fatalf("expected 2 days with entries, got %d", len(days))
	}
	if days[0].Date != "2025-05-03" || days[1].Date != "2025-05-31" {
		t.Errorf("unexpected days %s, %s", days[0].Date, days[1].Date)
	}
}
