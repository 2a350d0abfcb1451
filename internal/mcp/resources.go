// ABOUTME: MCP resource implementations for fitlog history.
// ABOUTME: Provides fitlog://today, fitlog://recent, fitlog://active-workout and fitlog://calendar.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/fitlog/internal/calendar"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitlog://today",
		Name:        "Today",
		Description: "Workouts, meals and macro totals logged today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitlog://recent",
		Name:        "Recent Activity",
		Description: "Last 5 workouts and last 10 meals",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitlog://active-workout",
		Name:        "Active Workout",
		Description: "The workout in progress, if any",
		MIMEType:    "application/json",
	}, s.handleActiveWorkoutResource)

	// Marked days for the current month, for calendar views
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitlog://calendar",
		Name:        "Calendar",
		Description: "Days with logged workouts or meals, with the selected day flagged",
		MIMEType:    "application/json",
	}, s.handleCalendarResource)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	day := calendar.DayHistory(time.Now(), s.svc.Workouts.List(ctx), s.svc.Meals.List(ctx))
	return jsonResource("fitlog://today", day)
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts := s.svc.Workouts.List(ctx)
	if len(workouts) > 5 {
		workouts = workouts[:5]
	}
	meals := s.svc.Meals.List(ctx)
	if len(meals) > 10 {
		meals = meals[:10]
	}

	return jsonResource("fitlog://recent", map[string]interface{}{
		"workouts": workouts,
		"meals":    meals,
	})
}

func (s *Server) handleActiveWorkoutResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{"active": false}
	if w := s.svc.Workouts.Active(ctx); w != nil {
		result["active"] = true
		result["workout"] = w
		result["total_sets"] = w.TotalSets()
		result["total_volume"] = w.TotalVolume()
	}
	return jsonResource("fitlog://active-workout", result)
}

func (s *Server) handleCalendarResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	selected := time.Now()
	if d := s.svc.Settings.SelectedDate(ctx); d != nil {
		selected = *d
	}
	marks := calendar.MergeMarks(s.svc.Workouts.Marked(ctx), s.svc.Meals.Marked(ctx))
	return jsonResource("fitlog://calendar", map[string]interface{}{
		"selected": calendar.DayKey(selected),
		"marks":    calendar.WithSelected(marks, selected),
	})
}
