// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout; logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "fitlog": {
        "command": "fitlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_exercises        Search the exercise library
  add_exercise          Create a custom exercise
  list_templates        List workout templates
  start_workout         Start a workout (optionally from a template)
  get_active_workout    Show the workout in progress
  add_workout_exercise  Add an exercise to the active workout
  log_set               Log a set on the active workout
  complete_workout      Save the active workout to history
  discard_workout       Throw away the active workout
  list_workouts         List completed workouts
  get_workout           Get one workout
  delete_workout        Delete a workout
  log_meal              Log a meal with ingredients
  list_meals            List meals
  get_meal              Get one meal with totals
  delete_meal           Delete a meal
  update_ingredient     Edit an ingredient of a meal
  set_portion           Scale a meal by a portion multiplier
  analyze_meal          Estimate ingredients from a photo or description
  day_summary           Workouts, meals and macro totals for a day

AVAILABLE RESOURCES:

  fitlog://today            Today's workouts, meals and totals
  fitlog://recent           Recent workouts and meals
  fitlog://active-workout   The workout in progress
  fitlog://calendar         Marked days and the selected day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc, newAnalyzer(), version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
