package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
)

func init() {
	rootCmd.AddCommand(doneCmd)
}

var doneCmd = &cobra.Command{
	Use:   "done <habit> [date]",
	Short: "Mark a habit completed for a day (default today)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDone,
}

func runDone(cmd *cobra.Command, args []string) error {
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

	done, err := d.Engine.IsCompleted(h.ID, day)
	if err != nil {
		return err
	}
	if done {
		fmt.Printf("%s is already completed for %s.\n", habitLabel(h), day.Format("2006-01-02"))
		return nil
	}

	res, err := d.Engine.Toggle(h.ID, day)
	if err != nil {
		return err
	}

	fmt.Printf("%s done! +%d XP\n", habitLabel(h), res.XPEarned)
	if res.LeveledUp {
		fmt.Printf("Level up! You are now level %d.\n", res.Level)
	}
	for _, id := range res.NewlyUnlocked {
		fmt.Printf("Achievement unlocked: %s\n", id)
	}
	return nil
}
