package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
)

func init() {
	rootCmd.AddCommand(levelCmd)
}

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show your level and XP progress",
	RunE:  runLevel,
}

func runLevel(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	stats, prog, err := d.Engine.Progress()
	if err != nil {
		return err
	}

	fmt.Printf("Level %d (%d XP total)\n", stats.Level, stats.XP)
	fmt.Printf("%s %d/%d XP (%.0f%%)\n",
		progressBar(prog.Percentage, 30), prog.Current, prog.Needed, prog.Percentage)
	return nil
}

// progressBar renders a fixed-width terminal progress bar.
func progressBar(pct float64, width int) string {
	filled := int(pct / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
