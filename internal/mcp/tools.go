// ABOUTME: MCP tool implementations for workouts, meals, and exercises.
// ABOUTME: Each tool maps onto one storage service call.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlog/internal/analysis"
	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/nutrition"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "Search the exercise library by name and/or category",
	}, s.handleListExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add a custom exercise to the library",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_templates",
		Description: "List saved workout templates",
	}, s.handleListTemplates)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a workout, optionally from a template. Fails if one is already in progress",
	}, s.handleStartWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_active_workout",
		Description: "Show the workout in progress",
	}, s.handleGetActiveWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout_exercise",
		Description: "Add an exercise from the library to the workout in progress",
	}, s.handleAddWorkoutExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log a set for an exercise in the workout in progress",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_workout",
		Description: "Finish the workout in progress and save it to history",
	}, s.handleCompleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "discard_workout",
		Description: "Throw away the workout in progress",
	}, s.handleDiscardWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List completed workouts, newest first, optionally for one day",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a completed workout by ID or ID prefix",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a completed workout",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_meal",
		Description: "Log a meal with its ingredients and macros",
	}, s.handleLogMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meals",
		Description: "List meals, newest first, optionally for one day",
	}, s.handleListMeals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_meal",
		Description: "Get a meal with its ingredients and totals",
	}, s.handleGetMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_meal",
		Description: "Delete a meal",
	}, s.handleDeleteMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_ingredient",
		Description: "Change an ingredient's weight (macros rescale) or set its macros explicitly",
	}, s.handleUpdateIngredient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_portion",
		Description: "Scale a whole meal to a portion multiplier of at least 1",
	}, s.handleSetPortion)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze_meal",
		Description: "Estimate a meal's ingredients and macros from a photo and/or description, optionally saving it",
	}, s.handleAnalyzeMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "day_summary",
		Description: "Workouts, meals and macro totals for one day",
	}, s.handleDaySummary)
}

// Tool input/output types

type listExercisesInput struct {
	Query    string `json:"query,omitempty" jsonschema:"Case-insensitive name or description filter"`
	Category string `json:"category,omitempty" jsonschema:"Category filter (chest, back, legs, shoulders, arms, core, cardio, full_body, other)"`
}

type addExerciseInput struct {
	Name        string `json:"name" jsonschema:"Exercise name"`
	Category    string `json:"category" jsonschema:"Category (chest, back, legs, shoulders, arms, core, cardio, full_body, other)"`
	Description string `json:"description,omitempty" jsonschema:"Optional description"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type startWorkoutInput struct {
	Name       string `json:"name,omitempty" jsonschema:"Optional workout name"`
	TemplateID string `json:"template_id,omitempty" jsonschema:"Template ID or prefix to start from"`
}

type addWorkoutExerciseInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise ID or prefix from list_exercises"`
}

type logSetInput struct {
	Exercise  int     `json:"exercise" jsonschema:"1-based position of the exercise in the workout"`
	Weight    float64 `json:"weight" jsonschema:"Weight used"`
	Reps      int     `json:"reps" jsonschema:"Repetitions"`
	Completed *bool   `json:"completed,omitempty" jsonschema:"Whether the set was completed (default true)"`
}

type listInput struct {
	Date  string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, today, or yesterday"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or ID prefix"`
}

type ingredientInput struct {
	Name     string   `json:"name" jsonschema:"Ingredient name"`
	Weight   float64  `json:"weight" jsonschema:"Weight in grams"`
	Calories *float64 `json:"calories,omitempty" jsonschema:"Calories for this weight"`
	Protein  *float64 `json:"protein,omitempty" jsonschema:"Protein grams for this weight"`
	Carbs    *float64 `json:"carbs,omitempty" jsonschema:"Carb grams for this weight"`
	Fat      *float64 `json:"fat,omitempty" jsonschema:"Fat grams for this weight"`
}

func (in ingredientInput) toIngredient() models.Ingredient {
	ing := models.NewIngredient(strings.TrimSpace(in.Name), in.Weight)
	m := models.Macros{Calories: in.Calories, Protein: in.Protein, Carbs: in.Carbs, Fat: in.Fat}
	if !m.IsEmpty() {
		ing.WithMacros(m.Clone())
	}
	return *ing
}

type logMealInput struct {
	Name        string            `json:"name" jsonschema:"Meal name"`
	Ingredients []ingredientInput `json:"ingredients" jsonschema:"At least one ingredient"`
	EatenAt     string            `json:"eaten_at,omitempty" jsonschema:"Timestamp (ISO 8601 or YYYY-MM-DD HH:MM), defaults to now"`
	Notes       string            `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type mealOutput struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	Date    time.Time             `json:"date"`
	Totals  nutrition.MacroTotals `json:"totals"`
	Meal    *models.MealEntry     `json:"meal,omitempty"`
	Message string                `json:"message"`
}

type updateIngredientInput struct {
	MealID       string   `json:"meal_id" jsonschema:"Meal ID or prefix"`
	IngredientID string   `json:"ingredient_id" jsonschema:"Ingredient ID or prefix"`
	Name         string   `json:"name,omitempty" jsonschema:"New name"`
	Weight       *float64 `json:"weight,omitempty" jsonschema:"New weight in grams; macros rescale unless given"`
	Calories     *float64 `json:"calories,omitempty" jsonschema:"Explicit calories"`
	Protein      *float64 `json:"protein,omitempty" jsonschema:"Explicit protein grams"`
	Carbs        *float64 `json:"carbs,omitempty" jsonschema:"Explicit carb grams"`
	Fat          *float64 `json:"fat,omitempty" jsonschema:"Explicit fat grams"`
}

type setPortionInput struct {
	MealID     string  `json:"meal_id" jsonschema:"Meal ID or prefix"`
	Multiplier float64 `json:"multiplier" jsonschema:"Portion multiplier, at least 1"`
}

type analyzeMealInput struct {
	Description string `json:"description,omitempty" jsonschema:"What was eaten"`
	ImagePath   string `json:"image_path,omitempty" jsonschema:"Local path or file:// URI of a meal photo"`
	Save        bool   `json:"save,omitempty" jsonschema:"Save the analyzed meal"`
}

type analyzeMealOutput struct {
	Analysis *analysis.Analysis `json:"analysis"`
	MealID   string             `json:"meal_id,omitempty"`
	Message  string             `json:"message"`
}

type daySummaryInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, today, or yesterday (default today)"`
}

// Helpers

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseDay resolves "", "today", "yesterday" or YYYY-MM-DD to local midnight.
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
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return day, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func toolError(tool string, err error) error {
	log.Warn("mcp tool failed", "tool", tool, "err", err)
	return err
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}

func mealSummary(m *models.MealEntry, msg string) mealOutput {
	return mealOutput{
		ID:      shortID(m.ID),
		Name:    m.Name,
		Date:    m.Date,
		Totals:  nutrition.Totals(nutrition.MealMacros(*m)),
		Meal:    m,
		Message: msg,
	}
}

// Tool handlers

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	var cat *models.Category
	if input.Category != "" {
		if !models.IsValidCategory(input.Category) {
			return nil, nil, toolError("list_exercises", fmt.Errorf("unknown category: %s", input.Category))
		}
		c := models.Category(input.Category)
		cat = &c
	}
	found := s.svc.Exercises.Search(ctx, input.Query, cat)
	if len(found) == 0 {
		return nil, map[string]interface{}{"message": "No exercises found."}, nil
	}
	return nil, map[string]interface{}{"exercises": found}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, simpleOutput, error) {
	e, err := s.svc.Exercises.Create(ctx, input.Name, models.Category(input.Category), input.Description)
	if err != nil {
		return nil, simpleOutput{}, toolError("add_exercise", fmt.Errorf("failed to add exercise: %w", err))
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Added exercise %s (%s) (ID: %s)", e.Name, e.Category, shortID(e.ID)),
	}, nil
}

func (s *Server) handleListTemplates(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	templates := s.svc.Templates.List(ctx)
	if len(templates) == 0 {
		return nil, map[string]interface{}{"message": "No templates found."}, nil
	}
	return nil, map[string]interface{}{"templates": templates}, nil
}

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input startWorkoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	var (
		w   *models.Workout
		err error
	)
	if input.TemplateID != "" {
		w, err = s.svc.Workouts.StartFromTemplate(ctx, input.TemplateID)
	} else {
		w, err = s.svc.Workouts.Start(ctx, input.Name)
	}
	if err != nil {
		return nil, simpleOutput{}, toolError("start_workout", fmt.Errorf("failed to start workout: %w", err))
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Started %s with %d exercises (ID: %s)", w.DisplayName(), len(w.Exercises), shortID(w.ID)),
	}, nil
}

func (s *Server) handleGetActiveWorkout(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	w := s.svc.Workouts.Active(ctx)
	if w == nil {
		return nil, map[string]interface{}{"message": "No workout in progress."}, nil
	}
	return nil, w, nil
}

func (s *Server) handleAddWorkoutExercise(ctx context.Context, req *mcp.CallToolRequest, input addWorkoutExerciseInput) (*mcp.CallToolResult, simpleOutput, error) {
	e, err := s.svc.Exercises.Get(ctx, input.ExerciseID)
	if err != nil {
		return nil, simpleOutput{}, toolError("add_workout_exercise", fmt.Errorf("exercise not found: %s", input.ExerciseID))
	}
	w, err := s.svc.Workouts.AddExercise(ctx, *e)
	if err != nil {
		return nil, simpleOutput{}, toolError("add_workout_exercise", fmt.Errorf("failed to add exercise: %w", err))
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Added %s as exercise %d", e.Name, len(w.Exercises)),
	}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, simpleOutput, error) {
	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}
	set := models.ExerciseSet{Weight: input.Weight, Reps: input.Reps, Completed: completed}
	w, err := s.svc.Workouts.AddSet(ctx, input.Exercise-1, set)
	if err != nil {
		return nil, simpleOutput{}, toolError("log_set", fmt.Errorf("failed to log set: %w", err))
	}
	we := w.Exercises[input.Exercise-1]
	return nil, simpleOutput{
		Message: fmt.Sprintf("Logged %s set %d: %g x %d", we.Exercise.Name, len(we.Sets), set.Weight, set.Reps),
	}, nil
}

func (s *Server) handleCompleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.svc.Workouts.Complete(ctx)
	if err != nil {
		return nil, simpleOutput{}, toolError("complete_workout", fmt.Errorf("failed to complete workout: %w", err))
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Completed %s: %d sets, %.1f volume (ID: %s)", w.DisplayName(), w.TotalSets(), w.TotalVolume(), shortID(w.ID)),
	}, nil
}

func (s *Server) handleDiscardWorkout(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.svc.Workouts.Discard(ctx); err != nil {
		return nil, simpleOutput{}, toolError("discard_workout", fmt.Errorf("failed to discard workout: %w", err))
	}
	return nil, simpleOutput{Message: "Discarded workout in progress"}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	var workouts []models.Workout
	if input.Date != "" {
		day, err := parseDay(input.Date)
		if err != nil {
			return nil, nil, toolError("list_workouts", err)
		}
		workouts = s.svc.Workouts.OnDay(ctx, day)
	} else {
		workouts = s.svc.Workouts.List(ctx)
	}

	if len(workouts) == 0 {
		return nil, map[string]interface{}{"message": "No workouts found."}, nil
	}
	if limit := limitOrDefault(input.Limit); len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return nil, map[string]interface{}{"workouts": workouts}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	w, err := s.svc.Workouts.Get(ctx, input.ID)
	if err != nil {
		return nil, nil, toolError("get_workout", fmt.Errorf("workout not found: %s", input.ID))
	}
	return nil, w, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.svc.Workouts.Get(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, toolError("delete_workout", fmt.Errorf("workout not found: %s", input.ID))
	}
	if err := s.svc.Workouts.Delete(ctx, w.ID); err != nil {
		return nil, simpleOutput{}, toolError("delete_workout", fmt.Errorf("failed to delete workout: %w", err))
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout: %s", shortID(w.ID))}, nil
}

func (s *Server) handleLogMeal(ctx context.Context, req *mcp.CallToolRequest, input logMealInput) (*mcp.CallToolResult, mealOutput, error) {
	when, err := parseTimestamp(input.EatenAt)
	if err != nil {
		return nil, mealOutput{}, toolError("log_meal", err)
	}

	meal := models.NewMealEntry(input.Name).WithDate(when)
	if input.Notes != "" {
		meal.WithNotes(input.Notes)
	}
	for _, in := range input.Ingredients {
		meal.WithIngredients(in.toIngredient())
	}

	saved, err := s.svc.Meals.Create(ctx, *meal)
	if err != nil {
		return nil, mealOutput{}, toolError("log_meal", fmt.Errorf("failed to log meal: %w", err))
	}
	out := mealSummary(saved, "")
	out.Message = fmt.Sprintf("Logged %s: %.0f kcal (ID: %s)", saved.Name, out.Totals.Calories, out.ID)
	return nil, out, nil
}

func (s *Server) handleListMeals(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	var meals []models.MealEntry
	if input.Date != "" {
		day, err := parseDay(input.Date)
		if err != nil {
			return nil, nil, toolError("list_meals", err)
		}
		meals = s.svc.Meals.OnDay(ctx, day)
	} else {
		meals = s.svc.Meals.List(ctx)
	}

	if len(meals) == 0 {
		return nil, map[string]interface{}{"message": "No meals found."}, nil
	}
	if limit := limitOrDefault(input.Limit); len(meals) > limit {
		meals = meals[:limit]
	}
	return nil, map[string]interface{}{"meals": meals}, nil
}

func (s *Server) handleGetMeal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, mealOutput, error) {
	m, err := s.svc.Meals.Get(ctx, input.ID)
	if err != nil {
		return nil, mealOutput{}, toolError("get_meal", fmt.Errorf("meal not found: %s", input.ID))
	}
	return nil, mealSummary(m, m.Name), nil
}

func (s *Server) handleDeleteMeal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	m, err := s.svc.Meals.Get(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, toolError("delete_meal", fmt.Errorf("meal not found: %s", input.ID))
	}
	if err := s.svc.Meals.Delete(ctx, m.ID); err != nil {
		return nil, simpleOutput{}, toolError("delete_meal", fmt.Errorf("failed to delete meal: %w", err))
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted meal: %s", shortID(m.ID))}, nil
}

func (s *Server) handleUpdateIngredient(ctx context.Context, req *mcp.CallToolRequest, input updateIngredientInput) (*mcp.CallToolResult, mealOutput, error) {
	m, err := s.svc.Meals.Get(ctx, input.MealID)
	if err != nil {
		return nil, mealOutput{}, toolError("update_ingredient", fmt.Errorf("meal not found: %s", input.MealID))
	}

	upd := storage.IngredientUpdate{Weight: input.Weight}
	if input.Name != "" {
		upd.Name = &input.Name
	}
	macros := models.Macros{Calories: input.Calories, Protein: input.Protein, Carbs: input.Carbs, Fat: input.Fat}
	if !macros.IsEmpty() {
		upd.Macros = &macros
	}

	updated, err := s.svc.Meals.UpdateIngredient(ctx, m.ID, input.IngredientID, upd)
	if err != nil {
		return nil, mealOutput{}, toolError("update_ingredient", fmt.Errorf("failed to update ingredient: %w", err))
	}
	return nil, mealSummary(updated, "Updated ingredient"), nil
}

func (s *Server) handleSetPortion(ctx context.Context, req *mcp.CallToolRequest, input setPortionInput) (*mcp.CallToolResult, mealOutput, error) {
	m, err := s.svc.Meals.Get(ctx, input.MealID)
	if err != nil {
		return nil, mealOutput{}, toolError("set_portion", fmt.Errorf("meal not found: %s", input.MealID))
	}
	updated, err := s.svc.Meals.SetMultiplier(ctx, m.ID, input.Multiplier)
	if err != nil {
		return nil, mealOutput{}, toolError("set_portion", fmt.Errorf("failed to set portion: %w", err))
	}
	return nil, mealSummary(updated, fmt.Sprintf("Scaled %s to %gx", updated.Name, input.Multiplier)), nil
}

func (s *Server) handleAnalyzeMeal(ctx context.Context, req *mcp.CallToolRequest, input analyzeMealInput) (*mcp.CallToolResult, analyzeMealOutput, error) {
	if s.analyzer == nil {
		return nil, analyzeMealOutput{}, toolError("analyze_meal", errors.New("meal analysis is not configured"))
	}

	result, err := s.analyzer.Analyze(ctx, analysis.Request{ImagePath: input.ImagePath, Description: input.Description})
	if err != nil {
		if raw, ok := analysis.RawResponse(err); ok {
			return nil, analyzeMealOutput{}, toolError("analyze_meal", fmt.Errorf("%w\nraw response: %s", err, raw))
		}
		return nil, analyzeMealOutput{}, toolError("analyze_meal", err)
	}

	out := analyzeMealOutput{
		Analysis: result,
		Message:  fmt.Sprintf("Analyzed %s: %d ingredients", result.Name, len(result.Ingredients)),
	}
	if input.Save {
		saved, err := s.svc.Meals.CreateFromAnalysis(ctx, result, time.Now(), input.ImagePath)
		if err != nil {
			return nil, analyzeMealOutput{}, toolError("analyze_meal", fmt.Errorf("failed to save meal: %w", err))
		}
		out.MealID = shortID(saved.ID)
		out.Message += fmt.Sprintf(" (saved as %s)", out.MealID)
	}
	return nil, out, nil
}

func (s *Server) handleDaySummary(ctx context.Context, req *mcp.CallToolRequest, input daySummaryInput) (*mcp.CallToolResult, any, error) {
	day, err := parseDay(input.Date)
	if err != nil {
		return nil, nil, toolError("day_summary", err)
	}
	return nil, calendar.DayHistory(day, s.svc.Workouts.List(ctx), s.svc.Meals.List(ctx)), nil
}
