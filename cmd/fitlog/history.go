// ABOUTME: CLI commands for per-day history and the month calendar.
// ABOUTME: The last viewed day is remembered as the selected date.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Browse history by day",
	Long: `Browse workouts and meals by calendar day.

EXAMPLES:

  fitlog history day               # Today
  fitlog history day yesterday
  fitlog history day 2026-03-04
  fitlog history calendar          # Month of the last viewed day
  fitlog history calendar 2026-02`,
}

var historyDayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show workouts, meals and macro totals for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		day, err := parseDay(arg)
		if err != nil {
			return err
		}
		if err := svc.Settings.SetSelectedDate(cmd.Context(), day); err != nil {
			log.Warn("failed to remember selected date", "err", err)
		}

		h := calendar.DayHistory(day, svc.Workouts.List(cmd.Context()), svc.Meals.List(cmd.Context()))
		color.New(color.Bold).Println(day.Format("Monday, January 2 2006"))
		if h.IsEmpty() {
			fmt.Println("\nNothing logged.")
			return nil
		}

		if len(h.Workouts) > 0 {
			fmt.Println("\nWorkouts")
			for _, w := range h.Workouts {
				fmt.Printf("  %s %s %s %s\n",
					faint.Sprint(shortID(w.ID)),
					faint.Sprint(w.Date.Format("15:04")),
					padRight(truncate(w.DisplayName(), 24), 24),
					faint.Sprintf("%d exercises, %d sets", len(w.Exercises), w.TotalSets()))
			}
		}
		if len(h.Meals) > 0 {
			fmt.Println("\nMeals")
			for _, m := range h.Meals {
				fmt.Printf("  %s %s %s\n",
					faint.Sprint(shortID(m.ID)),
					faint.Sprint(m.Date.Format("15:04")),
					m.Name)
			}
			fmt.Printf("\nTotal: %s\n", formatTotals(h.Totals))
		}
		return nil
	},
}

var historyCalendarCmd = &cobra.Command{
	Use:     "calendar [YYYY-MM]",
	Aliases: []string{"cal"},
	Short:   "Show a month with active days marked",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		selected := calendar.StartOfDay(time.Now())
		if d := svc.Settings.SelectedDate(ctx); d != nil {
			selected = *d
		}

		month := selected
		if len(args) == 1 {
			t, err := time.ParseInLocation("2006-01", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid month %q (use YYYY-MM)", args[0])
			}
			month = t
		}

		marks := calendar.WithSelected(
			calendar.MergeMarks(svc.Workouts.Marked(ctx), svc.Meals.Marked(ctx)),
			selected,
		)
		fmt.Print(renderMonth(month, marks))

		days := calendar.MonthDays(month, svc.Workouts.List(ctx), svc.Meals.List(ctx))
		if len(days) > 0 {
			fmt.Println()
		}
		for _, d := range days {
			fmt.Printf("  %s  %s  %s\n",
				d.Date,
				faint.Sprintf("%d workouts, %d meals", len(d.Workouts), len(d.Meals)),
				fmt.Sprintf("%.0f kcal", d.Totals.Calories))
		}
		return nil
	},
}

// renderMonth draws a Monday-first month grid. Marked days get a trailing *
// and the selected day is bracketed.
func renderMonth(month time.Time, marks map[string]calendar.Mark) string {
	first, last := calendar.MonthRange(month)
	var b strings.Builder

	title := first.Format("January 2006")
	b.WriteString(strings.Repeat(" ", (28-len(title))/2) + title + "\n")
	b.WriteString(" Mo  Tu  We  Th  Fr  Sa  Su\n")

	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))
	col := offset
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		m := marks[calendar.DayKey(d)]
		cell := fmt.Sprintf("%2d", d.Day())
		if m.Marked {
			cell += "*"
		} else {
			cell += " "
		}
		if m.Selected {
			cell = "[" + strings.TrimSpace(cell) + "]"
			cell = fmt.Sprintf("%4s", cell)
		} else {
			cell = " " + cell
		}
		b.WriteString(cell)
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func init() {
	historyCmd.AddCommand(historyDayCmd)
	historyCmd.AddCommand(historyCalendarCmd)
	rootCmd.AddCommand(historyCmd)
}
