package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editDesc, "desc", "", "New description")
	editCmd.Flags().StringVar(&editEmoji, "emoji", "", "New emoji")
	editCmd.Flags().StringVar(&editCategory, "category", "", "New category")
	editCmd.Flags().StringVar(&editTimeOfDay, "time", "", "New time of day")
	rootCmd.AddCommand(editCmd)
}

var (
	editTitle     string
	editDesc      string
	editEmoji     string
	editCategory  string
	editTimeOfDay string
)

var editCmd = &cobra.Command{
	Use:   "edit <habit>",
	Short: "Edit a habit's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := findHabit(d, args[0])
	if err != nil {
		return err
	}

	// Unset flags keep the existing value.
	if editTitle != "" {
		h.Title = editTitle
	}
	if cmd.Flags().Changed("desc") {
		h.Description = editDesc
	}
	if cmd.Flags().Changed("emoji") {
		h.Emoji = editEmoji
	}
	if cmd.Flags().Changed("category") {
		h.Category = editCategory
	}
	if cmd.Flags().Changed("time") {
		h.TimeOfDay = editTimeOfDay
	}

	updated, err := d.Engine.EditHabit(h)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", habitLabel(updated))
	return nil
}
