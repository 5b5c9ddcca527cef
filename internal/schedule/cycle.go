// Package schedule computes the dates a task occupies: recurring date
// generation, routine expansion and the business-day clock.
package schedule

import (
	"strings"
	"time"

	"organizese/internal/models/task"
)

type Cycle string

const (
	CycleDaily     Cycle = "daily"
	CycleWeekly    Cycle = "weekly"
	CycleMonthly   Cycle = "monthly"
	CycleQuarterly Cycle = "quarterly"
	CycleBiannual  Cycle = "biannual"
	CycleAnnual    Cycle = "annual"
)

// MaxDates bounds every generated sequence.
const MaxDates = 100

func (c Cycle) Valid() bool {
	switch c {
	case CycleDaily, CycleWeekly, CycleMonthly, CycleQuarterly, CycleBiannual, CycleAnnual:
		return true
	}
	return false
}

// ParseCycle normalizes user input. Unknown values are returned as-is with ok=false.
func ParseCycle(s string) (Cycle, bool) {
	c := Cycle(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// GenerateDates returns the dates from start to end (inclusive) stepping by
// cycle. A nil end means one year after start. Weekend dates are omitted when
// includeWeekends is false. An unknown cycle stops after the first date.
func GenerateDates(start time.Time, end *time.Time, cycle Cycle, includeWeekends bool) []string {
	first := dateOnly(start)
	last := first.AddDate(1, 0, 0)
	if end != nil {
		last = dateOnly(*end)
	}

	dates := make([]string, 0)
	current := first
	for n := 1; !current.After(last) && len(dates) < MaxDates; n++ {
		if includeWeekends || !isWeekend(current) {
			dates = append(dates, current.Format(task.DateLayout))
		}

		next, ok := advance(first, cycle, n)
		if !ok {
			break
		}
		current = next
	}
	return dates
}

// advance returns the n-th occurrence after first. Steps are measured from
// first, so month-end starts do not drift (Jan 31 -> Feb 28 -> Mar 31).
func advance(first time.Time, cycle Cycle, n int) (time.Time, bool) {
	switch cycle {
	case CycleDaily:
		return first.AddDate(0, 0, n), true
	case CycleWeekly:
		return first.AddDate(0, 0, 7*n), true
	case CycleMonthly:
		return addMonthsClamped(first, n), true
	case CycleQuarterly:
		return addMonthsClamped(first, 3*n), true
	case CycleBiannual:
		return addMonthsClamped(first, 6*n), true
	case CycleAnnual:
		return addMonthsClamped(first, 12*n), true
	default:
		return time.Time{}, false
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
