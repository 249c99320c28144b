package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
	"github.com/ember-labs/ember/internal/domain"
)

func init() {
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "Include archived habits")
	rootCmd.AddCommand(listCmd)
}

var listArchived bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with today's status",
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	habits, err := d.Engine.Habits(listArchived)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits yet. Run 'ember add <title>' to get started.")
		return nil
	}

	today := domain.Day(time.Now())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HABIT\tCATEGORY\tSTREAK\tTODAY\tSTATUS")
	for _, h := range habits {
		streak, err := d.Engine.CurrentStreak(h.ID, today)
		if err != nil {
			return err
		}
		done, err := d.Engine.IsCompleted(h.ID, today)
		if err != nil {
			return err
		}

		mark := " "
		if done {
			mark = "x"
		}
		status := "active"
		if !h.IsActive {
			status = "archived"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t[%s]\t%s\n",
			habitLabel(h), h.Category, streak, mark, status)
	}
	return w.Flush()
}
