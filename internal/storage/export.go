// ABOUTME: Export and import of every fitlog collection.
// ABOUTME: Supports JSON, YAML, and Markdown export formats and JSON import.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/nutrition"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export document version.
const ExportVersion = "1.0"

// ExportData represents the full export format.
type ExportData struct {
	Version       string                   `json:"version" yaml:"version"`
	ExportedAt    time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool          string                   `json:"tool" yaml:"tool"`
	Exercises     []models.Exercise        `json:"exercises" yaml:"exercises"`
	Templates     []models.WorkoutTemplate `json:"templates" yaml:"templates"`
	Workouts      []models.Workout         `json:"workouts" yaml:"workouts"`
	ActiveWorkout *models.Workout          `json:"active_workout,omitempty" yaml:"active_workout,omitempty"`
	Meals         []models.MealEntry       `json:"meals" yaml:"meals"`
}

// ImportSummary counts records written by an import.
type ImportSummary struct {
	Exercises int
	Templates int
	Workouts  int
	Meals     int
}

// Export gathers every collection. Only custom exercises are included.
func (s *Services) Export(ctx context.Context) *ExportData {
	var custom []models.Exercise
	for _, e := range s.Exercises.List(ctx) {
		if e.IsCustom {
			custom = append(custom, e)
		}
	}
	if custom == nil {
		custom = []models.Exercise{}
	}

	return &ExportData{
		Version:       ExportVersion,
		ExportedAt:    time.Now(),
		Tool:          "fitlog",
		Exercises:     custom,
		Templates:     s.Templates.List(ctx),
		Workouts:      s.Workouts.List(ctx),
		ActiveWorkout: s.Workouts.Active(ctx),
		Meals:         s.Meals.List(ctx),
	}
}

// ExportJSON exports all data as indented JSON.
func (s *Services) ExportJSON(ctx context.Context) ([]byte, error) {
	return json.MarshalIndent(s.Export(ctx), "", "  ")
}

// ExportYAML exports all data as YAML.
func (s *Services) ExportYAML(ctx context.Context) ([]byte, error) {
	return yaml.Marshal(s.Export(ctx))
}

// ExportMarkdown renders a per-day history. Days before since are skipped
// when since is set.
func (s *Services) ExportMarkdown(ctx context.Context, since *time.Time) string {
	workouts := s.Workouts.List(ctx)
	meals := s.Meals.List(ctx)

	days := map[string]time.Time{}
	addDay := func(t time.Time) {
		local := calendar.StartOfDay(t.In(time.Local))
		days[calendar.DayKey(local)] = local
	}
	for _, w := range workouts {
		addDay(w.Date)
	}
	for _, m := range meals {
		addDay(m.Date)
	}

	keys := make([]string, 0, len(days))
	for k, d := range days {
		if since != nil && d.Before(calendar.StartOfDay(since.In(time.Local))) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(fmt.Sprintf("# Fitlog Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, k := range keys {
		day := calendar.DayHistory(days[k], workouts, meals)
		sb.WriteString(fmt.Sprintf("## %s\n\n", k))

		if len(day.Workouts) > 0 {
			sb.WriteString("### Workouts\n\n")
			sb.WriteString("| Time | Workout | Exercises | Sets | Volume |\n")
			sb.WriteString("|------|---------|-----------|------|--------|\n")
			for _, w := range day.Workouts {
				sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %.1f |\n",
					w.Date.In(time.Local).Format("15:04"), w.DisplayName(),
					len(w.Exercises), w.TotalSets(), w.TotalVolume()))
			}
			sb.WriteString("\n")
		}

		if len(day.Meals) > 0 {
			sb.WriteString("### Meals\n\n")
			sb.WriteString("| Time | Meal | Calories | Protein | Carbs | Fat |\n")
			sb.WriteString("|------|------|----------|---------|-------|-----|\n")
			for _, m := range day.Meals {
				t := nutrition.Totals(nutrition.MealMacros(m))
				sb.WriteString(fmt.Sprintf("| %s | %s | %.0f | %.1f | %.1f | %.1f |\n",
					m.Date.In(time.Local).Format("15:04"), m.Name,
					t.Calories, t.Protein, t.Carbs, t.Fat))
			}
			sb.WriteString(fmt.Sprintf("\n**Total:** %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n\n",
				day.Totals.Calories, day.Totals.Protein, day.Totals.Carbs, day.Totals.Fat))
		}
	}

	return sb.String()
}

// ImportData merges data into the store. Records replace stored records with
// the same id; everything else is appended.
func (s *Services) ImportData(ctx context.Context, data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}

	if _, err := s.Exercises.Seed(ctx); err != nil {
		return nil, err
	}
	n, err := mergeInto(ctx, s.Exercises.col, data.Exercises)
	if err != nil {
		return nil, fmt.Errorf("import exercises: %w", err)
	}
	summary.Exercises = n

	if n, err = mergeInto(ctx, s.Templates.col, data.Templates); err != nil {
		return nil, fmt.Errorf("import templates: %w", err)
	}
	summary.Templates = n

	if n, err = mergeInto(ctx, s.Workouts.col, data.Workouts); err != nil {
		return nil, fmt.Errorf("import workouts: %w", err)
	}
	summary.Workouts = n

	if n, err = mergeInto(ctx, s.Meals.col, data.Meals); err != nil {
		return nil, fmt.Errorf("import meals: %w", err)
	}
	summary.Meals = n

	return summary, nil
}

// ImportJSON imports an export document from JSON bytes.
func (s *Services) ImportJSON(ctx context.Context, raw []byte) (*ImportSummary, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return s.ImportData(ctx, &data)
}

func mergeInto[T Record](ctx context.Context, col *Collection[T], incoming []T) (int, error) {
	if len(incoming) == 0 {
		return 0, nil
	}
	existing, _, err := col.load(ctx)
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(existing))
	for i, item := range existing {
		index[item.RecordID()] = i
	}
	for _, item := range incoming {
		if i, ok := index[item.RecordID()]; ok {
			existing[i] = item
			continue
		}
		index[item.RecordID()] = len(existing)
		existing = append(existing, item)
	}
	return len(incoming), col.Save(ctx, existing)
}
