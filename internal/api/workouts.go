// ABOUTME: Active workout and workout history handlers.
// ABOUTME: Exercise positions in the active workout are zero-based path indexes.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/harperreed/fitlog/internal/models"
)

type startWorkoutRequest struct {
	Name       string `json:"name"`
	TemplateID string `json:"template_id"`
}

// GET /api/workouts/active
func (s *Server) getActiveWorkout(c *gin.Context) {
	w := s.svc.Workouts.Active(c)
	if w == nil {
		apiError(c, http.StatusNotFound, "no workout in progress")
		return
	}
	c.JSON(http.StatusOK, w)
}

// startWorkout starts an empty workout or one prefilled from a template.
// POST /api/workouts/active
func (s *Server) startWorkout(c *gin.Context) {
	var req startWorkoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apiError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var (
		w   *models.Workout
		err error
	)
	if req.TemplateID != "" {
		w, err = s.svc.Workouts.StartFromTemplate(c, req.TemplateID)
	} else {
		w, err = s.svc.Workouts.Start(c, req.Name)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// DELETE /api/workouts/active
func (s *Server) discardWorkout(c *gin.Context) {
	if err := s.svc.Workouts.Discard(c); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/workouts/active/complete
func (s *Server) completeWorkout(c *gin.Context) {
	w, err := s.svc.Workouts.Complete(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// POST /api/workouts/active/exercises {"exercise_id": "..."}
func (s *Server) addWorkoutExercise(c *gin.Context) {
	var req struct {
		ExerciseID string `json:"exercise_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ExerciseID == "" {
		apiError(c, http.StatusBadRequest, "exercise_id is required")
		return
	}
	e, err := s.svc.Exercises.Get(c, req.ExerciseID)
	if err != nil {
		fail(c, err)
		return
	}
	w, err := s.svc.Workouts.AddExercise(c, *e)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func indexParam(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}
	return idx, true
}

// DELETE /api/workouts/active/exercises/:index
func (s *Server) removeWorkoutExercise(c *gin.Context) {
	idx, ok := indexParam(c)
	if !ok {
		return
	}
	w, err := s.svc.Workouts.RemoveExercise(c, idx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// PUT /api/workouts/active/exercises/:index/sets {"sets": [...], "notes": "..."}
func (s *Server) updateWorkoutSets(c *gin.Context) {
	idx, ok := indexParam(c)
	if !ok {
		return
	}
	var req struct {
		Sets  []models.ExerciseSet `json:"sets"`
		Notes *string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	w, err := s.svc.Workouts.UpdateSets(c, idx, req.Sets)
	if err != nil {
		fail(c, err)
		return
	}
	if req.Notes != nil {
		if w, err = s.svc.Workouts.UpdateNotes(c, idx, *req.Notes); err != nil {
			fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, w)
}

// listWorkouts returns completed workouts, newest first.
// GET /api/workouts?date=YYYY-MM-DD (all days when omitted)
func (s *Server) listWorkouts(c *gin.Context) {
	workouts := s.svc.Workouts.List(c)
	if raw := c.Query("date"); raw != "" {
		day, err := calendar.ParseDay(raw, timeLocation())
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		workouts = calendar.ByCalendarDay(workouts, day)
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// GET /api/workouts/:id
func (s *Server) getWorkout(c *gin.Context) {
	w, err := s.svc.Workouts.Get(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// DELETE /api/workouts/:id
func (s *Server) deleteWorkout(c *gin.Context) {
	w, err := s.svc.Workouts.Get(c, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.Workouts.Delete(c, w.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
