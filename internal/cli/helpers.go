package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/ember-labs/ember/internal/daemon"
	"github.com/ember-labs/ember/internal/domain"
)

// findHabit resolves a habit reference given on the command line: an exact
// ID first, then a unique case-insensitive title prefix.
func findHabit(d *daemon.Daemon, ref string) (domain.Habit, error) {
	habits, err := d.Engine.Habits(true)
	if err != nil {
		return domain.Habit{}, err
	}

	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}

	var matches []domain.Habit
	needle := strings.ToLower(ref)
	for _, h := range habits {
		if strings.HasPrefix(strings.ToLower(h.Title), needle) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Habit{}, fmt.Errorf("no habit matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, h := range matches {
			names[i] = h.Title
		}
		return domain.Habit{}, fmt.Errorf("%q is ambiguous: %s", ref, strings.Join(names, ", "))
	}
}

// parseDayArg parses an optional YYYY-MM-DD argument, defaulting to today.
func parseDayArg(args []string, at int) (time.Time, error) {
	if len(args) <= at {
		return domain.Day(time.Now()), nil
	}
	day, err := domain.ParseDay(args[at])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[at])
	}
	return day, nil
}

// habitLabel renders a habit for terminal output.
func habitLabel(h domain.Habit) string {
	if h.Emoji != "" {
		return h.Emoji + " " + h.Title
	}
	return h.Title
}
