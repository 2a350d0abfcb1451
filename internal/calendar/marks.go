// ABOUTME: Marked-date maps for the history calendar.
// ABOUTME: One mark per day with data; the selected day is overlaid on top.
package calendar

import (
	"time"

	"github.com/harperreed/fitlog/internal/models"
)

// Mark is the calendar decoration for one day.
type Mark struct {
	Marked   bool `json:"marked,omitempty"`
	Selected bool `json:"selected,omitempty"`
}

// MarkedDates returns one mark per distinct local day with a workout, no
// matter how many workouts happened that day.
func MarkedDates(workouts []models.Workout) map[string]Mark {
	return MarkDays(workouts)
}

// MarkDays is MarkedDates for any dated collection.
func MarkDays[T Dated](entries []T) map[string]Mark {
	marks := make(map[string]Mark)
	for _, e := range entries {
		marks[DayKey(e.OccurredAt().In(time.Local))] = Mark{Marked: true}
	}
	return marks
}

// MergeMarks combines mark maps, keeping any flag set in either.
func MergeMarks(maps ...map[string]Mark) map[string]Mark {
	out := make(map[string]Mark)
	for _, m := range maps {
		for k, v := range m {
			cur := out[k]
			cur.Marked = cur.Marked || v.Marked
			cur.Selected = cur.Selected || v.Selected
			out[k] = cur
		}
	}
	return out
}

// WithSelected returns a copy of marks with day flagged as selected. An
// existing Marked flag on that day is kept. day is keyed by its local date,
// the same way MarkDays keys entries.
func WithSelected(marks map[string]Mark, day time.Time) map[string]Mark {
	out := make(map[string]Mark, len(marks)+1)
	for k, v := range marks {
		out[k] = v
	}
	key := DayKey(day.In(time.Local))
	m := out[key]
	m.Selected = true
	out[key] = m
	return out
}
