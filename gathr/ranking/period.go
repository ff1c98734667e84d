package ranking

import (
	"fmt"
	"time"
)

// PeriodAllTime is the sentinel period key for categories without a
// time-bucketed cadence. Their single snapshot is recomputed wholesale each
// run instead of being partitioned by time.
const PeriodAllTime = "all-time"

// TimeWindow scopes an aggregation pass. A zero Since/Until bound means
// unbounded on that side. Anchor is the reference instant for the ISO-week
// and calendar-month sub-windows of the activity stats.
type TimeWindow struct {
	Since  time.Time
	Until  time.Time
	Anchor time.Time
}

// CurrentPeriod derives the canonical period key for a category at the given
// instant. Identical input always yields an identical key, which is what lets
// a later recomputation supersede the earlier snapshot instead of duplicating
// it. All derivation is in UTC.
func CurrentPeriod(category RankingCategory, at time.Time) string {
	at = at.UTC()
	switch category.Cadence() {
	case CadenceWeekly:
		year, week := at.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case CadenceMonthly:
		return at.Format("2006-01")
	default:
		return PeriodAllTime
	}
}

// CurrentWindow is the aggregation window matching CurrentPeriod.
func CurrentWindow(category RankingCategory, at time.Time) TimeWindow {
	at = at.UTC()
	switch category.Cadence() {
	case CadenceWeekly:
		return TimeWindow{Since: weekStart(at), Anchor: at}
	case CadenceMonthly:
		return TimeWindow{Since: monthStart(at), Anchor: at}
	default:
		return TimeWindow{Anchor: at}
	}
}

// PeriodWindow resolves an explicit period key to its aggregation window,
// so past weeks and months can be recomputed. The key must match the
// category's cadence.
func PeriodWindow(category RankingCategory, period string, now time.Time) (TimeWindow, error) {
	now = now.UTC()
	switch category.Cadence() {
	case CadenceWeekly:
		var year, week int
		if _, err := fmt.Sscanf(period, "%4d-W%2d", &year, &week); err != nil {
			return TimeWindow{}, fmt.Errorf("invalid weekly period %q: %w", period, err)
		}
		monday := isoWeekStart(year, week)
		if CurrentPeriod(category, monday) != period {
			return TimeWindow{}, fmt.Errorf("invalid weekly period %q", period)
		}
		return TimeWindow{Since: monday, Until: monday.AddDate(0, 0, 7), Anchor: monday}, nil
	case CadenceMonthly:
		first, err := time.ParseInLocation("2006-01", period, time.UTC)
		if err != nil {
			return TimeWindow{}, fmt.Errorf("invalid monthly period %q: %w", period, err)
		}
		return TimeWindow{Since: first, Until: first.AddDate(0, 1, 0), Anchor: first}, nil
	default:
		if period != PeriodAllTime {
			return TimeWindow{}, fmt.Errorf("category %s only supports the %q period", category, PeriodAllTime)
		}
		return TimeWindow{Anchor: now}, nil
	}
}

// weekStart returns Monday 00:00 UTC of the ISO week containing t.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// monthStart returns the first of t's month, 00:00 UTC.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// isoWeekStart returns Monday 00:00 UTC of the given ISO week. January 4th is
// always inside week 1 of its ISO year.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return weekStart(jan4).AddDate(0, 0, (week-1)*7)
}
