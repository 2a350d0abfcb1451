// ABOUTME: Install Claude Code skill for fitlog
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the fitlog skill for Claude Code.

This copies the skill definition to ~/.claude/skills/fitlog/
so Claude Code can use fitlog commands contextually.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(filepath.Join(home, ".claude", "skills", "fitlog"), cmd.InOrStdin(), skillSkipConfirm)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

// installSkill writes the embedded SKILL.md into skillDir, asking on in
// first unless skipConfirm is set.
func installSkill(skillDir string, in io.Reader, skipConfirm bool) error {
	skillPath := filepath.Join(skillDir, "SKILL.md")

	color.New(color.Bold).Println("fitlog skill for Claude Code")
	fmt.Println(`
With the skill installed Claude Code can start workouts, log sets and meals,
estimate macros from a photo and summarize a day, or run it via /fitlog.`)
	fmt.Printf("\nTarget: %s\n", skillPath)
	if _, err := os.Stat(skillPath); err == nil {
		fmt.Println(faint.Sprint("(replaces the existing file)"))
	}
	fmt.Println()

	if !skipConfirm {
		if !confirm(in, "Install? [y/N] ", "y", "Y", "yes", "YES") {
			fmt.Println("Nothing installed.")
			return nil
		}
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if err := os.MkdirAll(skillDir, 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	color.Green("✓ Skill installed")
	fmt.Println(faint.Sprint(`try "start a push day workout" or "how much protein did I eat today?"`))
	return nil
}
