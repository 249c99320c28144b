// Package cli implements the Ember command-line interface using Cobra.
// Each subcommand maps to one ledger or progression operation (done, undo,
// streak, level, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ember",
	Short: "Ember — Build habits that stick",
	Long: `Ember is a local-first habit tracker.
Track daily habits, earn XP, keep streaks alive and unlock achievements.
All data lives in a single SQLite file under ~/.ember — no accounts, no sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
