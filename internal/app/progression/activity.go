package progression

import (
	"fmt"
	"time"

	"github.com/ember-labs/ember/internal/domain"
)

// ─── Activity aggregator ────────────────────────────────────────────────────
// Rolls the completion ledger up into chart buckets. Exactly one point per
// period across the whole window, zero-filled, oldest first, anchored to
// the engine clock and walking backward `count` periods.

// ActivitySeries returns completion counts bucketed by the given
// granularity over the last `count` periods.
func (e *Engine) ActivitySeries(g domain.Granularity, count int) ([]domain.ActivityPoint, error) {
	if count <= 0 {
		return []domain.ActivityPoint{}, nil
	}

	now := domain.Day(e.now())
	var from time.Time
	switch g {
	case domain.GranularityDay:
		from = now.AddDate(0, 0, -(count - 1))
	case domain.GranularityWeek:
		from = startOfWeek(now).AddDate(0, 0, -7*(count-1))
	case domain.GranularityMonth:
		from = startOfMonth(now).AddDate(0, -(count - 1), 0)
	case domain.GranularityYear:
		from = time.Date(now.Year()-(count-1), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil, domain.ErrBadGranularity
	}

	byDay, err := e.store.CompletionCountsByDay(from, now)
	if err != nil {
		return nil, fmt.Errorf("completion counts: %w", err)
	}

	points := make([]domain.ActivityPoint, 0, count)
	for i := count - 1; i >= 0; i-- {
		var start, end time.Time
		var label string

		switch g {
		case domain.GranularityDay:
			start = now.AddDate(0, 0, -i)
			end = start
			label = start.Format("Jan 2")
		case domain.GranularityWeek:
			start = startOfWeek(now).AddDate(0, 0, -7*i)
			end = start.AddDate(0, 0, 6)
			_, wk := start.ISOWeek()
			label = fmt.Sprintf("Week %d", wk)
		case domain.GranularityMonth:
			start = startOfMonth(now).AddDate(0, -i, 0)
			end = start.AddDate(0, 1, -1)
			label = start.Format("Jan 2006")
		case domain.GranularityYear:
			start = time.Date(now.Year()-i, 1, 1, 0, 0, 0, 0, time.UTC)
			end = time.Date(now.Year()-i, 12, 31, 0, 0, 0, 0, time.UTC)
			label = start.Format("2006")
		}

		points = append(points, domain.ActivityPoint{
			Label: label,
			Value: sumRange(byDay, start, end),
		})
	}
	return points, nil
}

// sumRange totals per-day counts across [start, end] inclusive.
func sumRange(byDay map[string]int, start, end time.Time) int {
	total := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		total += byDay[domain.DayKey(d)]
	}
	return total
}

// startOfWeek returns the Monday of the week containing d.
func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return domain.Day(d).AddDate(0, 0, -offset)
}

func startOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}
