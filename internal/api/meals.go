// ABOUTME: Meal logging, ingredient editing, portion scaling and analysis handlers.
// ABOUTME: Responses carry the meal plus its display totals.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitlog/internal/analysis"
	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/nutrition"
	"github.com/harperreed/fitlog/internal/storage"
)

type mealResponse struct {
	models.MealEntry
	Totals nutrition.MacroTotals `json:"totals"`
}

func withTotals(m models.MealEntry) mealResponse {
	return mealResponse{MealEntry: m, Totals: nutrition.Totals(nutrition.MealMacros(m))}
}

// GET /api/meals?date=YYYY-MM-DD (all days when omitted)
func (s *Server) listMeals(c *gin.Context) {
	meals := s.svc.Meals.List(c)
	if raw := c.Query("date"); raw != "" {
		day, err := calendar.ParseDay(raw, timeLocation())
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		meals = calendar.ByCalendarDay(meals, day)
	}
	out := make([]mealResponse, 0, len(meals))
	for _, m := range meals {
		out = append(out, withTotals(m))
	}
	c.JSON(http.StatusOK, out)
}

// createMeal stores a meal. Ingredient and meal ids are generated when absent.
// POST /api/meals
func (s *Server) createMeal(c *gin.Context) {
	var meal models.MealEntry
	if err := c.ShouldBindJSON(&meal); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := s.svc.Meals.Create(c, meal)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, withTotals(*saved))
}

// GET /api/meals/:id
func (s *Server) getMeal(c *gin.Context) {
	m, err := s.svc.Meals.Get(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, withTotals(*m))
}

// DELETE /api/meals/:id
func (s *Server) deleteMeal(c *gin.Context) {
	m, err := s.svc.Meals.Get(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.Meals.Delete(c, m.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// updateIngredient changes an ingredient's name, weight or macros. A weight
// change without explicit macros rescales the existing macros.
// PATCH /api/meals/:id/ingredients/:ingredientId
func (s *Server) updateIngredient(c *gin.Context) {
	var upd storage.IngredientUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := s.svc.Meals.UpdateIngredient(c, c.Param("id"), c.Param("ingredientId"), upd)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, withTotals(*m))
}

// PUT /api/meals/:id/multiplier {"multiplier": 2}
func (s *Server) setMultiplier(c *gin.Context) {
	var req struct {
		Multiplier float64 `json:"multiplier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := s.svc.Meals.SetMultiplier(c, c.Param("id"), req.Multiplier)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, withTotals(*m))
}

type analyzeRequest struct {
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Feedback    string             `json:"feedback"`
	Previous    *analysis.Analysis `json:"previous"`
	Save        bool               `json:"save"`
}

type analyzeResponse struct {
	Analysis *analysis.Analysis `json:"analysis"`
	Meal     *mealResponse      `json:"meal,omitempty"`
}

// analyzeMeal runs a first analysis, or a revision when feedback is given.
// Images must be data: or http(s) URLs; server-side paths are refused.
// POST /api/meals/analyze
func (s *Server) analyzeMeal(c *gin.Context) {
	if s.analyzer == nil {
		apiError(c, http.StatusServiceUnavailable, "meal analysis is not configured")
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Image != "" && !isRemoteImage(req.Image) {
		apiError(c, http.StatusBadRequest, "image must be a data: or http(s) URL")
		return
	}

	var (
		result *analysis.Analysis
		err    error
	)
	if req.Feedback != "" || req.Previous != nil {
		result, err = s.analyzer.AnalyzeWithFeedback(c, analysis.FeedbackRequest{
			Feedback:    req.Feedback,
			ImagePath:   req.Image,
			Description: req.Description,
			Previous:    req.Previous,
		})
	} else {
		result, err = s.analyzer.Analyze(c, analysis.Request{ImagePath: req.Image, Description: req.Description})
	}
	if err != nil {
		fail(c, err)
		return
	}

	resp := analyzeResponse{Analysis: result}
	if req.Save {
		imageURI := ""
		if !strings.HasPrefix(req.Image, "data:") {
			imageURI = req.Image
		}
		saved, err := s.svc.Meals.CreateFromAnalysis(c, result, time.Now(), imageURI)
		if err != nil {
			fail(c, err)
			return
		}
		m := withTotals(*saved)
		resp.Meal = &m
	}
	c.JSON(http.StatusOK, resp)
}

func isRemoteImage(ref string) bool {
	for _, p := range []string{"data:", "http://", "https://"} {
		if strings.HasPrefix(ref, p) {
			return true
		}
	}
	return false
}
