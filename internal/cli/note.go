package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
	"github.com/ember-labs/ember/internal/domain"
)

func init() {
	noteCmd.Flags().StringVar(&noteDate, "date", "", "Day to attach the note to (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(noteCmd)
}

var noteDate string

var noteCmd = &cobra.Command{
	Use:   "note <habit> <text...>",
	Short: "Attach a note to a day's completion record",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runNote,
}

func runNote(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := findHabit(d, args[0])
	if err != nil {
		return err
	}

	day := domain.Day(time.Now())
	if noteDate != "" {
		if day, err = domain.ParseDay(noteDate); err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", noteDate)
		}
	}

	if err := d.Engine.AddNote(h.ID, day, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Printf("Noted on %s for %s.\n", day.Format("2006-01-02"), habitLabel(h))
	return nil
}
