package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ember-labs/ember/internal/daemon"
)

func init() {
	timerCmd.AddCommand(timerStartCmd, timerPauseCmd, timerResumeCmd, timerStopCmd, timerStatusCmd)
	rootCmd.AddCommand(timerCmd)
}

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run a focus timer against a habit",
}

var timerStartCmd = &cobra.Command{
	Use:   "start <habit>",
	Short: "Start a focus session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTimer(args[0], func(d *daemon.Daemon, id string) error {
			if _, err := d.Timer.Start(id); err != nil {
				return err
			}
			fmt.Println("Timer started.")
			return nil
		})
	},
}

var timerPauseCmd = &cobra.Command{
	Use:   "pause <habit>",
	Short: "Pause the running session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTimer(args[0], func(d *daemon.Daemon, id string) error {
			if _, err := d.Timer.Pause(id); err != nil {
				return err
			}
			fmt.Println("Timer paused.")
			return nil
		})
	},
}

var timerResumeCmd = &cobra.Command{
	Use:   "resume <habit>",
	Short: "Resume a paused session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTimer(args[0], func(d *daemon.Daemon, id string) error {
			if _, err := d.Timer.Resume(id); err != nil {
				return err
			}
			fmt.Println("Timer resumed.")
			return nil
		})
	},
}

var timerStopCmd = &cobra.Command{
	Use:   "stop <habit>",
	Short: "Stop the session and record the time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTimer(args[0], func(d *daemon.Daemon, id string) error {
			seconds, err := d.Timer.Stop(id)
			if err != nil {
				return err
			}
			fmt.Printf("Session done: %s focused.\n", (time.Duration(seconds) * time.Second).String())
			return nil
		})
	},
}

var timerStatusCmd = &cobra.Command{
	Use:   "status <habit>",
	Short: "Show the session's elapsed time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTimer(args[0], func(d *daemon.Daemon, id string) error {
			elapsed, err := d.Timer.Elapsed(id)
			if err != nil {
				return err
			}
			fmt.Printf("Elapsed: %s\n", elapsed.Round(time.Second))
			return nil
		})
	},
}

// withTimer opens the daemon, resolves the habit and runs fn against it.
func withTimer(ref string, fn func(d *daemon.Daemon, habitID string) error) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	h, err := findHabit(d, ref)
	if err != nil {
		return err
	}
	return fn(d, h.ID)
}
