package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
)

func init() {
	rootCmd.AddCommand(shareCmd)
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a progress summary for sharing",
	RunE:  runShare,
}

func runShare(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	stats, _, err := d.Engine.Progress()
	if err != nil {
		return err
	}

	fmt.Printf("I'm level %d on Ember with a longest streak of %d days!\n",
		stats.Level, stats.LongestStreak)

	if _, err := d.Engine.RecordShare(); err != nil {
		return err
	}
	return nil
}
