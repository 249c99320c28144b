package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
)

func init() {
	rootCmd.AddCommand(streakCmd)
}

var streakCmd = &cobra.Command{
	Use:   "streak <habit> [date]",
	Short: "Show a habit's current and longest streak",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := findHabit(d, args[0])
	if err != nil {
		return err
	}
	day, err := parseDayArg(args, 1)
	if err != nil {
		return err
	}

	current, err := d.Engine.CurrentStreak(h.ID, day)
	if err != nil {
		return err
	}
	longest, err := d.Engine.LongestStreakFor(h.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", habitLabel(h))
	fmt.Printf("  Current streak: %d days\n", current)
	fmt.Printf("  Longest streak: %d days\n", longest)
	return nil
}
