// ABOUTME: CLI commands for stored settings and the config file.
// ABOUTME: Manages the analysis API key and shows the effective configuration.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/analysis"
	"github.com/harperreed/fitlog/internal/config"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage settings",
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store the API key used for meal analysis",
	Long: `Store the API key used for meal analysis.

The key is saved in the fitlog store (and syncs with it on the Charm
backend). With no argument the key is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		} else {
			fmt.Print("API key: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read key: %w", err)
			}
			key = line
		}
		if err := svc.Settings.SetAPIKey(cmd.Context(), key); err != nil {
			return fmt.Errorf("failed to save key: %w", err)
		}
		color.Green("✓ API key saved")
		return nil
	},
}

var settingsClearKeyCmd = &cobra.Command{
	Use:   "clear-key",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Settings.ClearAPIKey(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear key: %w", err)
		}
		color.Yellow("✗ API key removed")
		return nil
	},
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config file:  %s\n", config.GetConfigPath())
		fmt.Printf("Backend:      %s\n", cfg.GetBackend())
		if cfg.GetBackend() != "charm" {
			fmt.Printf("Data dir:     %s\n", cfg.GetDataDir())
		}
		fmt.Printf("Log level:    %s\n", cfg.GetLogLevel())
		if f := cfg.GetLogFile(); f != "" {
			fmt.Printf("Log file:     %s\n", f)
		}

		model := cfg.AI.Model
		if model == "" {
			model = analysis.DefaultModel
		}
		baseURL := cfg.AI.BaseURL
		if baseURL == "" {
			baseURL = analysis.DefaultBaseURL
		}
		fmt.Printf("AI endpoint:  %s (%s)\n", baseURL, model)

		stored, err := svc.Settings.APIKey(cmd.Context())
		switch {
		case err != nil:
			color.Yellow("API key:      unreadable (%v)", err)
		case stored != "":
			fmt.Printf("API key:      %s (stored)\n", maskKey(stored))
		case config.EnvAPIKey() != "":
			fmt.Printf("API key:      %s (OPENAI_API_KEY)\n", maskKey(config.EnvAPIKey()))
		default:
			fmt.Println("API key:      not set")
		}
		fmt.Printf("API address:  %s\n", cfg.GetAPIAddr())
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.GetConfigPath()); err == nil {
			return fmt.Errorf("%s already exists", config.GetConfigPath())
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		color.Green("✓ Wrote %s", config.GetConfigPath())
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsClearKeyCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}
