// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats and merge on import.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/fitlog/internal/models"
	"gopkg.in/yaml.v3"
)

func populate(t *testing.T, svc *Services) (models.Workout, models.MealEntry) {
	t.Helper()
	ctx := context.Background()

	if _, err := svc.Exercises.Create(ctx, "Sled Push", models.CategoryFullBody, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Templates.Create(ctx, "Upper", []models.Exercise{benchPress()}, ""); err != nil {
		t.Fatal(err)
	}

	w := *models.NewWorkout().WithName("Morning").WithDate(time.Date(2024, 4, 2, 7, 0, 0, 0, time.Local))
	w.Exercises = []models.WorkoutExercise{{
		Exercise: benchPress(),
		Sets:     []models.ExerciseSet{{Weight: 50, Reps: 10, Completed: true}},
	}}
	w.IsCompleted = true
	if err := svc.Workouts.col.Append(ctx, w); err != nil {
		t.Fatal(err)
	}

	meal := riceMeal()
	meal.WithDate(time.Date(2024, 4, 3, 12, 0, 0, 0, time.Local))
	if _, err := svc.Meals.Create(ctx, meal); err != nil {
		t.Fatal(err)
	}
	return w, meal
}

func TestExportJSON(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestServices(t)
	populate(t, svc)

	data, err := svc.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "fitlog" {
		t.Errorf("Expected tool fitlog, got %s", export.Tool)
	}
	if len(export.Exercises) != 1 {
		t.Errorf("Expected only the custom exercise, got %d", len(export.Exercises))
	}
	if len(export.Templates) != 1 || len(export.Workouts) != 1 || len(export.Meals) != 1 {
		t.Errorf("unexpected counts: %d templates, %d workouts, %d meals",
			len(export.Templates), len(export.Workouts), len(export.Meals))
	}
	if export.ActiveWorkout != nil {
		t.Error("expected no active workout")
	}
}

func TestExportYAML(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestServices(t)
	populate(t, svc)

	data, err := svc.ExportYAML(ctx)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if yamlData["version"] != ExportVersion {
		t.Errorf("Expected version %s, got %v", ExportVersion, yamlData["version"])
	}
	if meals, ok := yamlData["meals"].([]interface{}); !ok || len(meals) != 1 {
		t.Errorf("expected one meal in YAML, got %v", yamlData["meals"])
	}
}

func TestExportMarkdown(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestServices(t)
	populate(t, svc)

	md := svc.ExportMarkdown(ctx, nil)
	for _, want := range []string{"# Fitlog Export", "## 2024-04-02", "Morning", "## 2024-04-03", "Rice bowl", "**Total:** 378 kcal"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "2024-04-02") > strings.Index(md, "2024-04-03") {
		t.Error("days should be in calendar order")
	}
}

func TestExportMarkdownWithSince(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestServices(t)
	populate(t, svc)

	since := time.Date(2024, 4, 3, 9, 0, 0, 0, time.Local)
	md := svc.ExportMarkdown(ctx, &since)
	if strings.Contains(md, "Morning") {
		t.Error("workout before since should be excluded")
	}
	if !strings.Contains(md, "Rice bowl") {
		t.Error("meal on the since day should be included")
	}
}

func TestImportJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := setupTestServices(t)
	w, meal := populate(t, src)

	data, err := src.ExportJSON(ctx)
	if err != nil {
		t.Fatal(err)
	}

	dst, _ := setupTestServices(t)
	summary, err := dst.ImportJSON(ctx, data)
	if err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if summary.Workouts != 1 || summary.Meals != 1 || summary.Templates != 1 || summary.Exercises != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}

	if _, err := dst.Workouts.Get(ctx, w.ID); err != nil {
		t.Errorf("workout id not preserved: %v", err)
	}
	if _, err := dst.Meals.Get(ctx, meal.ID); err != nil {
		t.Errorf("meal id not preserved: %v", err)
	}
	if n := len(dst.Exercises.List(ctx)); n != len(BuiltInExercises())+1 {
		t.Errorf("expected built-ins plus imported custom, got %d", n)
	}

	// Importing again replaces by id instead of duplicating.
	if _, err := dst.ImportJSON(ctx, data); err != nil {
		t.Fatal(err)
	}
	if n := len(dst.Meals.List(ctx)); n != 1 {
		t.Errorf("expected merge by id, got %d meals", n)
	}
}

func TestImportJSONInvalid(t *testing.T) {
	svc, _ := setupTestServices(t)
	if _, err := svc.ImportJSON(context.Background(), []byte(`{nope`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
