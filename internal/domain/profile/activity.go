package profile

import (
	"sort"
	"time"

	"github.com/cf-hub/cf-progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY ANALYZER
// ══════════════════════════════════════════════════════════════════════════════

// maxStreakLookback caps how far the current-streak walk goes. A year of
// unbroken daily solving is beyond any student we track.
const maxStreakLookback = 365

// ActivityAnalyzer derives streak statistics from a submission history.
// Activity is counted at calendar-day granularity in the configured
// location; two accepted submissions on the same local day are one active
// day. The clock is injectable for tests.
type ActivityAnalyzer struct {
	loc *time.Location
	now func() time.Time
}

// NewActivityAnalyzer creates an analyzer using the given location for
// day boundaries. A nil location falls back to the system local zone.
func NewActivityAnalyzer(loc *time.Location) *ActivityAnalyzer {
	if loc == nil {
		loc = time.Local
	}
	return &ActivityAnalyzer{loc: loc, now: time.Now}
}

// WithClock returns a copy of the analyzer using the given clock.
func (a *ActivityAnalyzer) WithClock(now func() time.Time) *ActivityAnalyzer {
	return &ActivityAnalyzer{loc: a.loc, now: now}
}

// Analyze computes streak statistics from the submission history. Any
// submission makes a day active, accepted or not; practicing counts even
// when the attempt fails. An empty history yields all zeros and a nil
// last activity.
func (a *ActivityAnalyzer) Analyze(subs []Submission) ActivityStats {
	var stats ActivityStats

	activeDays := make(map[string]struct{})
	var last time.Time
	for _, sub := range subs {
		activeDays[timeutil.DayKey(sub.SubmittedAt, a.loc)] = struct{}{}
		if sub.SubmittedAt.After(last) {
			last = sub.SubmittedAt
		}
	}
	if len(activeDays) == 0 {
		return stats
	}

	lastCopy := last
	stats.LastActivityAt = &lastCopy
	stats.LongestStreak = a.longestStreak(activeDays)
	stats.CurrentStreak = a.currentStreak(activeDays)
	return stats
}

// longestStreak finds the longest run of consecutive active days anywhere
// in the history.
func (a *ActivityAnalyzer) longestStreak(activeDays map[string]struct{}) int {
	days := make([]time.Time, 0, len(activeDays))
	for key := range activeDays {
		d, err := time.ParseInLocation("2006-01-02", key, a.loc)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if timeutil.DaysBetween(days[i-1], days[i], a.loc) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// currentStreak counts consecutive active days ending today, or ending
// yesterday when today has no activity yet. Anything older is a broken
// streak and counts as zero.
func (a *ActivityAnalyzer) currentStreak(activeDays map[string]struct{}) int {
	now := a.now()
	start := timeutil.StartOfDay(now, a.loc)

	if _, ok := activeDays[timeutil.DayKey(start, a.loc)]; !ok {
		start = start.AddDate(0, 0, -1)
		if _, ok := activeDays[timeutil.DayKey(start, a.loc)]; !ok {
			return 0
		}
	}

	streak := 0
	for i := 0; i < maxStreakLookback; i++ {
		day := start.AddDate(0, 0, -i)
		if _, ok := activeDays[timeutil.DayKey(day, a.loc)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// SolvedInPeriod counts distinct problems first-solved within the trailing
// window of whole days ending at now.
func SolvedInPeriod(solved []SolvedProblem, days int, now time.Time) int {
	if days <= 0 {
		return 0
	}
	cutoff := now.AddDate(0, 0, -days)
	count := 0
	for _, p := range solved {
		if p.SolvedAt.After(cutoff) {
			count++
		}
	}
	return count
}
