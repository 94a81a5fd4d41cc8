package diary

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		today string
		want  int
	}{
		{"empty", nil, "2026-01-03", 0},
		{"three consecutive ending today", []string{"2026-01-01", "2026-01-02", "2026-01-03"}, "2026-01-03", 3},
		{"gap before today", []string{"2026-01-01", "2026-01-03"}, "2026-01-03", 1},
		{"no entry today", []string{"2026-01-01", "2026-01-02"}, "2026-01-03", 0},
		{"future entry skipped", []string{"2026-01-02", "2026-01-03", "2026-01-09"}, "2026-01-03", 2},
		{"unparseable ignored", []string{"garbage", "2026-01-02", "2026-01-03", "2026-13-40"}, "2026-01-03", 2},
		{"unsorted input", []string{"2026-01-03", "2026-01-01", "2026-01-02"}, "2026-01-03", 3},
		{"across month boundary", []string{"2026-01-31", "2026-02-01"}, "2026-02-01", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.dates, day(tt.today)); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreak_UsesUTCCalendarDate(t *testing.T) {
	// 23:30 on Jan 2 in UTC-5 is already Jan 3 in UTC.
	loc := time.FixedZone("EST", -5*60*60)
	today := time.Date(2026, 1, 2, 23, 30, 0, 0, loc)

	got := CurrentStreak([]string{"2026-01-02", "2026-01-03"}, today)
	if got != 2 {
		t.Errorf("CurrentStreak() = %d, want 2", got)
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"single", []string{"2026-01-01"}, 1},
		{"three consecutive", []string{"2026-01-01", "2026-01-02", "2026-01-03"}, 3},
		{"gap", []string{"2026-01-01", "2026-01-03"}, 1},
		{"longest run in the middle", []string{"2025-12-01", "2026-01-01", "2026-01-02", "2026-01-03", "2026-02-10", "2026-02-11"}, 3},
		{"unparseable ignored", []string{"2026-01-01", "bad", "2026-01-02"}, 2},
		{"leap day", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.dates); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}
