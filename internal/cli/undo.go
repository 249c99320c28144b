package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
)

func init() {
	rootCmd.AddCommand(undoCmd)
}

var undoCmd = &cobra.Command{
	Use:   "undo <habit> [date]",
	Short: "Revoke a completion for a day (default today)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runUndo,
}

func runUndo(cmd *cobra.Command, args []string) error {
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
	if !done {
		fmt.Printf("%s is not completed for %s.\n", habitLabel(h), day.Format("2006-01-02"))
		return nil
	}

	res, err := d.Engine.Toggle(h.ID, day)
	if err != nil {
		return err
	}

	fmt.Printf("%s undone. %d XP revoked (level %d).\n", habitLabel(h), -res.XPEarned, res.Level)
	return nil
}
