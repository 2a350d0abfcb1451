// ABOUTME: Combined per-day history of workouts and meals.
// ABOUTME: Builds the day view and month overview shown by the history screen.
package calendar

import (
	"time"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/nutrition"
)

// Day is everything logged on one calendar day.
type Day struct {
	Date     string                `json:"date"`
	Workouts []models.Workout      `json:"workouts"`
	Meals    []models.MealEntry    `json:"meals"`
	Macros   models.Macros         `json:"macros"`
	Totals   nutrition.MacroTotals `json:"totals"`
}

// IsEmpty reports whether nothing was logged that day.
func (d Day) IsEmpty() bool {
	return len(d.Workouts) == 0 && len(d.Meals) == 0
}

// DayHistory buckets workouts and meals onto day and totals the meals.
func DayHistory(day time.Time, workouts []models.Workout, meals []models.MealEntry) Day {
	dayMeals := ByCalendarDay(meals, day)
	macros := nutrition.MealTotals(dayMeals)
	return Day{
		Date:     DayKey(day),
		Workouts: ByCalendarDay(workouts, day),
		Meals:    dayMeals,
		Macros:   macros,
		Totals:   nutrition.Totals(macros),
	}
}

// MonthDays returns the history of every day in day's month that has at
// least one workout or meal, in calendar order.
func MonthDays(day time.Time, workouts []models.Workout, meals []models.MealEntry) []Day {
	first, last := MonthRange(day)
	var out []Day
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		h := DayHistory(d, workouts, meals)
		if !h.IsEmpty() {
			out = append(out, h)
		}
	}
	return out
}
