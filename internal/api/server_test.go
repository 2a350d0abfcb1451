// ABOUTME: Tests for the HTTP API using httptest against an in-memory store.
// ABOUTME: Covers routing, status mapping, meal scaling and the analyze endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitlog/internal/analysis"
	"github.com/harperreed/fitlog/internal/kvstore"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
)

func setupTestAPI(t *testing.T, analyzer *analysis.Analyzer) (*Server, *storage.Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := storage.NewServices(kvstore.NewMemoryStore())
	t.Cleanup(func() { _ = svc.Close() })
	return New(svc, analyzer), svc
}

// doRequest sends method/path with an optional JSON body.
func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %s: %v", w.Body.String(), err)
	}
	return out
}

const riceMealJSON = `{
	"name": "Rice bowl",
	"ingredients": [
		{"name": "Rice", "weight": 200, "macros": {"calories": 260, "protein": 5.4, "carbs": 57, "fat": 0.6}},
		{"name": "Chicken", "weight": 100, "macros": {"calories": 165, "protein": 31}}
	]
}`

func TestHealth(t *testing.T) {
	s, _ := setupTestAPI(t, nil)
	w := doRequest(s, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestExercises(t *testing.T) {
	s, _ := setupTestAPI(t, nil)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{"list all", "GET", "/api/exercises", "", http.StatusOK},
		{"filter category", "GET", "/api/exercises?category=cardio", "", http.StatusOK},
		{"bad category", "GET", "/api/exercises?category=wings", "", http.StatusBadRequest},
		{"create", "POST", "/api/exercises", `{"name":"Sled Push","category":"legs"}`, http.StatusCreated},
		{"create missing name", "POST", "/api/exercises", `{"name":"","category":"legs"}`, http.StatusBadRequest},
		{"create bad json", "POST", "/api/exercises", `{`, http.StatusBadRequest},
		{"delete built-in", "DELETE", "/api/exercises/builtin-squat", "", http.StatusForbidden},
		{"edit built-in", "PUT", "/api/exercises/builtin-squat", `{"name":"Squat 2","category":"legs"}`, http.StatusForbidden},
		{"delete unknown", "DELETE", "/api/exercises/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, tt.method, tt.path, tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}

	w := doRequest(s, "GET", "/api/exercises?category=cardio", "")
	cardio := decode[[]models.Exercise](t, w)
	for _, e := range cardio {
		if e.Category != models.CategoryCardio {
			t.Errorf("unexpected category %s for %s", e.Category, e.Name)
		}
	}
}

func TestTemplates(t *testing.T) {
	s, _ := setupTestAPI(t, nil)

	w := doRequest(s, "POST", "/api/templates", `{"name":"Leg Day","exercise_ids":["builtin-squat"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	tmpl := decode[models.WorkoutTemplate](t, w)
	if len(tmpl.Exercises) != 1 || tmpl.Exercises[0].Name != "Squat" {
		t.Errorf("unexpected template exercises: %+v", tmpl.Exercises)
	}

	if w := doRequest(s, "POST", "/api/templates", `{"name":"Empty","exercise_ids":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty template, got %d", w.Code)
	}
	if w := doRequest(s, "POST", "/api/templates", `{"name":"Ghost","exercise_ids":["missing"]}`); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown exercise, got %d", w.Code)
	}

	w = doRequest(s, "POST", "/api/workouts/active", `{"template_id":"`+tmpl.ID+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 starting from template, got %d: %s", w.Code, w.Body.String())
	}
	workout := decode[models.Workout](t, w)
	if workout.DisplayName() != "Leg Day" || len(workout.Exercises) != 1 {
		t.Errorf("unexpected workout from template: %+v", workout)
	}
}

func TestWorkoutFlow(t *testing.T) {
	s, _ := setupTestAPI(t, nil)

	if w := doRequest(s, "GET", "/api/workouts/active", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 with no active workout, got %d", w.Code)
	}
	if w := doRequest(s, "POST", "/api/workouts/active", ""); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := doRequest(s, "POST", "/api/workouts/active", `{"name":"again"}`); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for second start, got %d", w.Code)
	}
	if w := doRequest(s, "POST", "/api/workouts/active/complete", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 completing an empty workout, got %d", w.Code)
	}

	if w := doRequest(s, "POST", "/api/workouts/active/exercises", `{"exercise_id":"builtin-bench-press"}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200 adding exercise, got %d: %s", w.Code, w.Body.String())
	}
	w := doRequest(s, "PUT", "/api/workouts/active/exercises/0/sets",
		`{"sets":[{"weight":100,"reps":5,"completed":true},{"weight":100,"reps":3,"completed":false}],"notes":"felt heavy"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 updating sets, got %d: %s", w.Code, w.Body.String())
	}
	active := decode[models.Workout](t, w)
	if active.TotalSets() != 2 || active.Exercises[0].Notes == nil {
		t.Errorf("unexpected active workout: %+v", active)
	}

	if w := doRequest(s, "PUT", "/api/workouts/active/exercises/7/sets", `{"sets":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad index, got %d", w.Code)
	}
	if w := doRequest(s, "PUT", "/api/workouts/active/exercises/x/sets", `{"sets":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer index, got %d", w.Code)
	}

	w = doRequest(s, "POST", "/api/workouts/active/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 completing, got %d: %s", w.Code, w.Body.String())
	}
	done := decode[models.Workout](t, w)
	if !done.IsCompleted || done.TotalVolume() != 500 {
		t.Errorf("unexpected completed workout: %+v", done)
	}

	today := time.Now().Format("2006-01-02")
	w = doRequest(s, "GET", "/api/workouts?date="+today, "")
	if list := decode[[]models.Workout](t, w); len(list) != 1 {
		t.Errorf("expected 1 workout today, got %d", len(list))
	}

	if w := doRequest(s, "GET", "/api/workouts/"+done.ID[:8], ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 by prefix, got %d", w.Code)
	}
	if w := doRequest(s, "DELETE", "/api/workouts/"+done.ID[:8], ""); w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w := doRequest(s, "GET", "/api/workouts/"+done.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestDeleteByIDPrefix(t *testing.T) {
	s, svc := setupTestAPI(t, nil)
	ctx := context.Background()

	w := doRequest(s, "POST", "/api/meals", riceMealJSON)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	meal := decode[mealResponse](t, w)

	w = doRequest(s, "POST", "/api/templates", `{"name":"Leg Day","exercise_ids":["builtin-squat"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	tmpl := decode[models.WorkoutTemplate](t, w)

	w = doRequest(s, "POST", "/api/exercises", `{"name":"Sled Push","category":"legs"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	exercise := decode[models.Exercise](t, w)

	tests := []struct {
		name string
		path string
		gone func() bool
	}{
		{"meal", "/api/meals/" + meal.ID[:8], func() bool { return len(svc.Meals.List(ctx)) == 0 }},
		{"template", "/api/templates/" + tmpl.ID[:8], func() bool { return len(svc.Templates.List(ctx)) == 0 }},
		{"exercise", "/api/exercises/" + exercise.ID[:8], func() bool {
			_, err := svc.Exercises.Get(ctx, exercise.ID)
			return errors.Is(err, storage.ErrNotFound)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doRequest(s, "DELETE", tt.path, ""); w.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
			}
			if !tt.gone() {
				t.Errorf("record still present after DELETE %s", tt.path)
			}
			if w := doRequest(s, "DELETE", tt.path, ""); w.Code != http.StatusNotFound {
				t.Errorf("expected 404 on second delete, got %d", w.Code)
			}
		})
	}
}

func TestMealScaling(t *testing.T) {
	s, _ := setupTestAPI(t, nil)

	w := doRequest(s, "POST", "/api/meals", riceMealJSON)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	meal := decode[mealResponse](t, w)
	if meal.Totals.Calories != 425 {
		t.Errorf("calories = %v, want 425", meal.Totals.Calories)
	}
	rice := meal.Ingredients[0]
	if rice.ID == "" {
		t.Fatal("expected generated ingredient id")
	}

	w = doRequest(s, "PATCH", "/api/meals/"+meal.ID+"/ingredients/"+rice.ID, `{"weight":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[mealResponse](t, w).Totals.Calories; got != 295 {
		t.Errorf("calories after weight edit = %v, want 295", got)
	}

	w = doRequest(s, "PUT", "/api/meals/"+meal.ID+"/multiplier", `{"multiplier":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	scaled := decode[mealResponse](t, w)
	if scaled.Totals.Calories != 590 || scaled.EffectiveMultiplier() != 2 {
		t.Errorf("unexpected scaled meal: %+v", scaled)
	}

	if w := doRequest(s, "PUT", "/api/meals/"+meal.ID+"/multiplier", `{"multiplier":0.5}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for multiplier below 1, got %d", w.Code)
	}
	if w := doRequest(s, "POST", "/api/meals", `{"name":"Air","ingredients":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty meal, got %d", w.Code)
	}
	if w := doRequest(s, "GET", "/api/meals?date=tomorrow", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", w.Code)
	}
}

func TestHistory(t *testing.T) {
	s, _ := setupTestAPI(t, nil)

	body := strings.Replace(riceMealJSON, `"name": "Rice bowl",`, `"name": "Rice bowl", "date": "2026-03-04T12:00:00Z",`, 1)
	if w := doRequest(s, "POST", "/api/meals", body); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	key := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC).In(time.Local).Format("2006-01-02")

	w := doRequest(s, "GET", "/api/history/day?date="+key, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	day := decode[struct {
		Meals  []json.RawMessage `json:"meals"`
		Totals struct {
			Calories float64 `json:"calories"`
		} `json:"totals"`
	}](t, w)
	if len(day.Meals) != 1 || day.Totals.Calories != 425 {
		t.Errorf("unexpected day: %+v", day)
	}

	if w := doRequest(s, "PUT", "/api/history/selected", `{"date":"2026-03-09"}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = doRequest(s, "GET", "/api/history/marked", "")
	marked := decode[struct {
		Selected string                     `json:"selected"`
		Marks    map[string]map[string]bool `json:"marks"`
	}](t, w)
	if marked.Selected != "2026-03-09" {
		t.Errorf("selected = %s", marked.Selected)
	}
	if !marked.Marks[key]["marked"] {
		t.Errorf("expected %s marked, got %v", key, marked.Marks)
	}
	if !marked.Marks["2026-03-09"]["selected"] {
		t.Errorf("expected 2026-03-09 selected, got %v", marked.Marks)
	}

	if w := doRequest(s, "PUT", "/api/history/selected", `{"date":"March"}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExport(t *testing.T) {
	s, _ := setupTestAPI(t, nil)
	if w := doRequest(s, "POST", "/api/meals", riceMealJSON); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w := doRequest(s, "GET", "/api/export", "")
	data := decode[storage.ExportData](t, w)
	if len(data.Meals) != 1 {
		t.Errorf("expected 1 exported meal, got %d", len(data.Meals))
	}

	w = doRequest(s, "GET", "/api/export?format=yaml", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Rice bowl") {
		t.Errorf("unexpected yaml export: %d %s", w.Code, w.Body.String())
	}
	if w := doRequest(s, "GET", "/api/export?format=xml", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// setupAnalyzer returns an analyzer pointed at a mock completion endpoint.
func setupAnalyzer(t *testing.T, status int, content string) *analysis.Analyzer {
	t.Helper()
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": content}},
			},
		})
	}))
	t.Cleanup(mock.Close)
	return analysis.New(analysis.Options{BaseURL: mock.URL, APIKey: analysis.StaticKey("test-key")})
}

func TestAnalyzeMeal(t *testing.T) {
	content := "```json\n{\"name\":\"Toast\",\"ingredients\":[{\"name\":\"Bread\",\"weight\":40,\"calories\":100}]}\n```"
	s, svc := setupTestAPI(t, setupAnalyzer(t, http.StatusOK, content))

	w := doRequest(s, "POST", "/api/meals/analyze", `{"description":"toast","save":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[analyzeResponse](t, w)
	if resp.Analysis.Name != "Toast" || resp.Meal == nil {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if resp.Meal.Totals.Calories != 100 {
		t.Errorf("calories = %v, want 100", resp.Meal.Totals.Calories)
	}
	if meals := svc.Meals.List(t.Context()); len(meals) != 1 {
		t.Errorf("expected saved meal, got %d", len(meals))
	}

	if w := doRequest(s, "POST", "/api/meals/analyze", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without input, got %d", w.Code)
	}
	if w := doRequest(s, "POST", "/api/meals/analyze", `{"image":"/etc/passwd"}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for local path, got %d", w.Code)
	}
}

func TestAnalyzeMealErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		content  string
		wantCode int
		wantRaw  bool
	}{
		{"upstream failure", http.StatusInternalServerError, "", http.StatusBadGateway, false},
		{"not json", http.StatusOK, "I can't tell what that is.", http.StatusBadGateway, true},
		{"wrong shape", http.StatusOK, `{"name":"x","ingredients":"rice"}`, http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupTestAPI(t, setupAnalyzer(t, tt.status, tt.content))
			w := doRequest(s, "POST", "/api/meals/analyze", `{"description":"food"}`)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}

			body := decode[map[string]string](t, w)
			if body["error"] == "" {
				t.Errorf("expected error message, got %v", body)
			}
			raw, ok := body["raw"]
			if ok != tt.wantRaw {
				t.Fatalf("raw present = %v, want %v: %v", ok, tt.wantRaw, body)
			}
			if tt.wantRaw && raw != tt.content {
				t.Errorf("expected raw %q, got %q", tt.content, raw)
			}
		})
	}
}

func TestAnalyzeMealUnconfigured(t *testing.T) {
	s, _ := setupTestAPI(t, nil)
	if w := doRequest(s, "POST", "/api/meals/analyze", `{"description":"toast"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}

	missingKey := analysis.New(analysis.Options{BaseURL: "http://127.0.0.1:1", APIKey: analysis.StaticKey("")})
	s2, _ := setupTestAPI(t, missingKey)
	if w := doRequest(s2, "POST", "/api/meals/analyze", `{"description":"toast"}`); w.Code != http.StatusPreconditionFailed {
		t.Errorf("expected 412, got %d", w.Code)
	}
}
