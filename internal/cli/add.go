package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
	"github.com/ember-labs/ember/internal/domain"
)

func init() {
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Habit description")
	addCmd.Flags().StringVar(&addEmoji, "emoji", "", "Emoji shown next to the habit")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Category (health, learning, ...)")
	addCmd.Flags().StringVar(&addTimeOfDay, "time", "", "Preferred time of day (morning, evening, ...)")
	addCmd.Flags().BoolVar(&addTrackTime, "track-time", false, "Record focus timer durations on completions")
	rootCmd.AddCommand(addCmd)
}

var (
	addDesc      string
	addEmoji     string
	addCategory  string
	addTimeOfDay string
	addTrackTime bool
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a new habit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := d.Engine.CreateHabit(domain.Habit{
		Title:       strings.Join(args, " "),
		Description: addDesc,
		Emoji:       addEmoji,
		Category:    addCategory,
		TimeOfDay:   addTimeOfDay,
		TrackTime:   addTrackTime,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added %s (%s)\n", habitLabel(h), h.ID)
	return nil
}
