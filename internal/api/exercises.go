// ABOUTME: Exercise library and workout template handlers.
// ABOUTME: Built-in exercises are read-only; templates hold exercise copies.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitlog/internal/models"
)

type exerciseRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// listExercises returns the library, filtered by ?q= and ?category=.
// GET /api/exercises
func (s *Server) listExercises(c *gin.Context) {
	var cat *models.Category
	if raw := c.Query("category"); raw != "" {
		if !models.IsValidCategory(raw) {
			apiError(c, http.StatusBadRequest, "unknown category")
			return
		}
		v := models.Category(raw)
		cat = &v
	}
	c.JSON(http.StatusOK, s.svc.Exercises.Search(c, c.Query("q"), cat))
}

// POST /api/exercises
func (s *Server) createExercise(c *gin.Context) {
	var req exerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	e, err := s.svc.Exercises.Create(c, req.Name, models.Category(req.Category), req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// PUT /api/exercises/:id
func (s *Server) updateExercise(c *gin.Context) {
	var req exerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	e, err := s.svc.Exercises.Get(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !e.IsCustom {
		apiError(c, http.StatusForbidden, "built-in exercises cannot be edited")
		return
	}
	e.Name = req.Name
	e.Category = models.Category(req.Category)
	if req.Description != "" {
		e.WithDescription(req.Description)
	}
	if err := s.svc.Exercises.Update(c, *e); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// DELETE /api/exercises/:id
func (s *Server) deleteExercise(c *gin.Context) {
	e, err := s.svc.Exercises.Get(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.Exercises.Delete(c, e.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type templateRequest struct {
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exercise_ids"`
	Description string   `json:"description"`
}

// GET /api/templates
func (s *Server) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Templates.List(c))
}

// createTemplate resolves each exercise id against the library and stores
// copies in the template.
// POST /api/templates
func (s *Server) createTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	exercises := make([]models.Exercise, 0, len(req.ExerciseIDs))
	for _, id := range req.ExerciseIDs {
		e, err := s.svc.Exercises.Get(c, id)
		if err != nil {
			fail(c, err)
			return
		}
		exercises = append(exercises, *e)
	}
	t, err := s.svc.Templates.Create(c, req.Name, exercises, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GET /api/templates/:id
func (s *Server) getTemplate(c *gin.Context) {
	t, err := s.svc.Templates.Get(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DELETE /api/templates/:id
func (s *Server) deleteTemplate(c *gin.Context) {
	t, err := s.svc.Templates.Get(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.Templates.Delete(c, t.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
