package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
	"github.com/ember-labs/ember/internal/domain"
)

func init() {
	statsCmd.Flags().StringVar(&statsGranularity, "by", "day", "Bucket size: day, week, month or year")
	statsCmd.Flags().IntVar(&statsCount, "count", 14, "Number of buckets to show")
	rootCmd.AddCommand(statsCmd)
}

var (
	statsGranularity string
	statsCount       int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion activity over time",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	points, err := d.Engine.ActivitySeries(domain.Granularity(statsGranularity), statsCount)
	if err != nil {
		return err
	}

	stats, _, err := d.Engine.Progress()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%d\t%s\n", p.Label, p.Value, strings.Repeat("#", p.Value))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nLevel %d · %d XP · longest streak %d · %d streaks started\n",
		stats.Level, stats.XP, stats.LongestStreak, stats.TotalStreaks)
	return nil
}
