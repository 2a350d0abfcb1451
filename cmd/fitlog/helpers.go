// ABOUTME: Shared parsing and formatting helpers for CLI commands.
// ABOUTME: Timestamps, days, set specs, ingredient specs and confirmation prompts.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/nutrition"
)

var faint = color.New(color.Faint)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// parseDay accepts "", "today", "yesterday" or YYYY-MM-DD.
func parseDay(s string) (time.Time, error) {
	now := time.Now()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return calendar.StartOfDay(now), nil
	case "yesterday":
		return calendar.StartOfDay(now.AddDate(0, 0, -1)), nil
	}
	day, err := calendar.ParseDay(strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return day, nil
}

// parseSet reads "WEIGHTxREPS", with a trailing "?" marking the set incomplete.
func parseSet(spec string) (models.ExerciseSet, error) {
	spec = strings.TrimSpace(strings.ToLower(spec))
	set := models.ExerciseSet{Completed: true}
	if strings.HasSuffix(spec, "?") {
		set.Completed = false
		spec = strings.TrimSuffix(spec, "?")
	}

	w, r, ok := strings.Cut(spec, "x")
	if !ok {
		return set, fmt.Errorf("invalid set %q (use WEIGHTxREPS, e.g. 100x5)", spec)
	}
	weight, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return set, fmt.Errorf("invalid weight in set %q", spec)
	}
	reps, err := strconv.Atoi(r)
	if err != nil {
		return set, fmt.Errorf("invalid reps in set %q", spec)
	}
	set.Weight = weight
	set.Reps = reps
	return set, nil
}

// parseIngredient reads "name:weight[:calories[:protein[:carbs[:fat]]]]".
// Empty macro fields stay unknown.
func parseIngredient(spec string) (models.Ingredient, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 6 {
		return models.Ingredient{}, fmt.Errorf("invalid ingredient %q (use name:grams[:kcal:protein:carbs:fat])", spec)
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return models.Ingredient{}, fmt.Errorf("ingredient name is required in %q", spec)
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("invalid weight in %q", spec)
	}

	ing := models.NewIngredient(name, weight)
	fields := make([]*float64, 4)
	for i, raw := range parts[2:] {
		fields[i] = nutrition.ParseOptionalNumeric(raw)
	}
	m := models.Macros{Calories: fields[0], Protein: fields[1], Carbs: fields[2], Fat: fields[3]}
	if !m.IsEmpty() {
		ing.WithMacros(m)
	}
	return *ing, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func formatTotals(t nutrition.MacroTotals) string {
	return fmt.Sprintf("%.0f kcal  P %.1fg  C %.1fg  F %.1fg", t.Calories, t.Protein, t.Carbs, t.Fat)
}

func formatMacro(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g%s", *v, unit)
}

// confirm prints prompt and reports whether the answer matches one of want.
func confirm(in io.Reader, prompt string, want ...string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(answer)
	for _, w := range want {
		if answer == w {
			return true
		}
	}
	return false
}
