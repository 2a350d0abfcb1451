// ABOUTME: Calendar-day bucketing and marked-date maps for history views.
// ABOUTME: Days compare by local year/month/day fields, never by time ranges.
package calendar

import (
	"time"
)

// DayLayout is the YYYY-MM-DD key format used for marked dates.
const DayLayout = "2006-01-02"

// Dated is anything placed on the calendar.
type Dated interface {
	OccurredAt() time.Time
}

// SameDay reports whether t falls on the same calendar day as day, with t
// converted into day's location first. Pass days in time.Local for the
// device's local calendar.
func SameDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ByCalendarDay returns the entries that occurred on day, preserving order.
func ByCalendarDay[T Dated](entries []T, day time.Time) []T {
	out := make([]T, 0)
	for _, e := range entries {
		if SameDay(e.OccurredAt(), day) {
			out = append(out, e)
		}
	}
	return out
}

// DayKey formats t as YYYY-MM-DD in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD key as midnight in loc.
func ParseDay(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, key, loc)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthRange returns the first and last calendar day of t's month.
func MonthRange(t time.Time) (first, last time.Time) {
	y, m, _ := t.Date()
	first = time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	last = first.AddDate(0, 1, -1)
	return first, last
}
