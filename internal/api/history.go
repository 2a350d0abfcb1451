// ABOUTME: Day history, calendar marks and selected-day handlers.
// ABOUTME: Days are YYYY-MM-DD keys in the server's local time zone.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitlog/internal/calendar"
)

func timeLocation() *time.Location {
	return time.Local
}

// dayParam parses ?date=, defaulting to today.
func dayParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return calendar.StartOfDay(time.Now()), true
	}
	day, err := calendar.ParseDay(raw, timeLocation())
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

// getDay returns the workouts, meals and macro totals for one day.
// GET /api/history/day?date=YYYY-MM-DD (defaults to today)
func (s *Server) getDay(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, calendar.DayHistory(day, s.svc.Workouts.List(c), s.svc.Meals.List(c)))
}

// getMarked returns the marked dates with the selected day overlaid. The
// selected day comes from ?date=, then the stored selection, then today.
// GET /api/history/marked
func (s *Server) getMarked(c *gin.Context) {
	selected := calendar.StartOfDay(time.Now())
	if stored := s.svc.Settings.SelectedDate(c); stored != nil {
		selected = *stored
	}
	if c.Query("date") != "" {
		day, ok := dayParam(c)
		if !ok {
			return
		}
		selected = day
	}

	marks := calendar.MergeMarks(s.svc.Workouts.Marked(c), s.svc.Meals.Marked(c))
	c.JSON(http.StatusOK, gin.H{
		"selected": calendar.DayKey(selected),
		"marks":    calendar.WithSelected(marks, selected),
	})
}

// PUT /api/history/selected {"date": "YYYY-MM-DD"}
func (s *Server) setSelected(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := calendar.ParseDay(req.Date, timeLocation())
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if err := s.svc.Settings.SetSelectedDate(c, day); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": calendar.DayKey(day)})
}

// export returns the full data set as JSON, or YAML with ?format=yaml.
// GET /api/export
func (s *Server) export(c *gin.Context) {
	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, s.svc.Export(c))
	case "yaml":
		data, err := s.svc.ExportYAML(c)
		if err != nil {
			fail(c, err)
			return
		}
		c.Data(http.StatusOK, "application/yaml", data)
	default:
		apiError(c, http.StatusBadRequest, "format must be json or yaml")
	}
}
