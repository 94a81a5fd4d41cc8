package diary

import (
	"sort"
	"time"
)

// CurrentStreak counts consecutive days with an entry ending at today's UTC
// calendar date. Dates after today are skipped without breaking the run;
// unparseable dates are ignored.
func CurrentStreak(dates []string, today time.Time) int {
	days := parseDays(dates)
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	expected := truncateDay(today.UTC())
	streak := 0
	for _, d := range days {
		switch {
		case d.Equal(expected):
			streak++
			expected = expected.AddDate(0, 0, -1)
		case d.Before(expected):
			return streak
		}
	}
	return streak
}

// LongestStreak returns the longest run of consecutive calendar days found in
// dates. Unparseable dates are ignored.
func LongestStreak(dates []string) int {
	days := parseDays(dates)
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 0, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
			continue
		}
		best = max(best, run)
		run = 1
	}
	return max(best, run)
}

// parseDays parses and de-duplicates YYYY-MM-DD strings as UTC midnights.
func parseDays(dates []string) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
