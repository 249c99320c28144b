package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
)

func init() {
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(reviveCmd)
}

var archiveCmd = &cobra.Command{
	Use:   "archive <habit>",
	Short: "Archive a habit (history is kept)",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

var reviveCmd = &cobra.Command{
	Use:   "revive <habit>",
	Short: "Bring an archived habit back",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevive,
}

func runArchive(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := findHabit(d, args[0])
	if err != nil {
		return err
	}
	if err := d.Engine.ArchiveHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("Archived %s.\n", habitLabel(h))
	return nil
}

func runRevive(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := findHabit(d, args[0])
	if err != nil {
		return err
	}
	if err := d.Engine.ReviveHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("Revived %s. Welcome back.\n", habitLabel(h))
	return nil
}
