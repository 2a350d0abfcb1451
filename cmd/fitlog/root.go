// ABOUTME: Root Cobra command for the fitlog CLI.
// ABOUTME: Loads config, sets up logging and opens the store in PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/harperreed/fitlog/internal/analysis"
	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/logging"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg       *config.Config
	svc       *storage.Services
	logCloser io.Closer

	flagBackend  string
	flagLogLevel string
)

// commands that never touch the store
var storeless = map[string]bool{
	"help":          true,
	"version":       true,
	"install-skill": true,
	"completion":    true,
	"migrate":       true,
	"repair":        true,
	"reset":         true,
	"wipe":          true,
	"link":          true,
	"unlink":        true,
	"init":          true,
}

var rootCmd = &cobra.Command{
	Use:     "fitlog",
	Short:   "Workout and nutrition tracker",
	Version: version,
	Long: `Fitlog tracks strength workouts and meals.

WHAT IT TRACKS:

  Workouts     exercises from a built-in library (or your own), sets, reps, weight
  Templates    reusable exercise lists to start workouts from
  Meals        ingredients with calories, protein, carbs and fat
  History      per-day workouts and macro totals, with a calendar of active days

QUICK START:

  $ fitlog workout start --name "Push Day"      # Start a workout
  $ fitlog workout add-exercise "bench press"   # Add Bench Press
  $ fitlog workout set 1 100x5 100x5 95x8       # Log sets for exercise 1
  $ fitlog workout complete                     # Save it to history
  $ fitlog meal add "Oats" -i "oats:80:300:10:54:6"
  $ fitlog meal analyze --photo lunch.jpg --save
  $ fitlog history day                          # Today's summary

STORAGE:

  The default backend is Charm KV (~/.local/share/charm/kv/fitlog), synced
  across devices and E2E encrypted with your SSH key. Set "backend" in
  ~/.config/fitlog/config.json (or FITLOG_BACKEND) to badger or sqlite for
  local-only storage.

MCP INTEGRATION:

  Run 'fitlog mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "fitlog": { "command": "fitlog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		logCloser = logging.Setup(logging.Params{
			Level: cfg.GetLogLevel(),
			File:  config.ExpandPath(cfg.GetLogFile()),
		})

		if storeless[cmd.Name()] {
			return nil
		}

		store, err := cfg.OpenStore()
		if err != nil {
			return fmt.Errorf("failed to open %s store: %w", cfg.GetBackend(), err)
		}
		svc = storage.NewServices(store)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if svc != nil {
			err = svc.Close()
			svc = nil
		}
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
		return err
	},
}

// newAnalyzer builds the meal analyzer. The stored key wins over OPENAI_API_KEY.
func newAnalyzer() *analysis.Analyzer {
	keys := []analysis.KeySource{analysis.StaticKey(config.EnvAPIKey())}
	if svc != nil {
		settings := svc.Settings
		keys = append([]analysis.KeySource{func(ctx context.Context) (string, error) {
			return settings.APIKey(ctx)
		}}, keys...)
	}
	return analysis.New(analysis.Options{
		BaseURL:   cfg.AI.BaseURL,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
		APIKey:    analysis.FirstKey(keys...),
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend (charm, badger, sqlite, memory)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}
