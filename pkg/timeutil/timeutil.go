// Package timeutil provides calendar-day helpers used by the activity
// analytics. Streaks are computed at day granularity, so collapsing
// timestamps to dates consistently in one place keeps the day math in a
// single spot. No external dependencies - uses only standard library.
package timeutil

import "time"

// DayDuration is the length of one calendar day ignoring DST shifts.
// Day arithmetic below uses AddDate, which is DST-safe; this constant is
// only for coarse comparisons.
const DayDuration = 24 * time.Hour

// StartOfDay returns midnight of t's calendar day in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// DaysBetween returns the number of whole calendar days from a to b in loc.
// Negative when b is before a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	start := StartOfDay(a, loc)
	end := StartOfDay(b, loc)
	days := 0
	switch {
	case end.After(start):
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			days++
		}
	case start.After(end):
		for d := end; d.Before(start); d = d.AddDate(0, 0, 1) {
			days--
		}
	}
	return days
}

// DayKey returns a stable "2006-01-02" key for t's calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}

// MonthKey returns a stable "2006-01" key for t's calendar month in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01")
}

// IsToday reports whether t falls on the same day as now in loc.
func IsToday(t, now time.Time, loc *time.Location) bool {
	return SameDay(t, now, loc)
}

// IsYesterday reports whether t falls on the day before now in loc.
func IsYesterday(t, now time.Time, loc *time.Location) bool {
	yesterday := StartOfDay(now, loc).AddDate(0, 0, -1)
	return SameDay(t, yesterday, loc)
}

// FromEpochSeconds converts judge epoch seconds to a time.Time.
func FromEpochSeconds(sec int64) time.Time {
	return time.Unix(sec, 0)
}
