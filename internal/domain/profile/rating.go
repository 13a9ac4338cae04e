package profile

import (
	"math"
	"sort"
	"time"

	"github.com/cf-hub/cf-progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATING AGGREGATION
// ══════════════════════════════════════════════════════════════════════════════

// distributionBuckets are the fixed difficulty histogram ranges, in display
// order. Unrated problems are excluded from the histogram entirely.
var distributionBuckets = []struct {
	label string
	below int // exclusive upper bound, 0 for the open-ended top bucket
}{
	{"800-999", 1000},
	{"1000-1199", 1200},
	{"1200-1399", 1400},
	{"1400-1599", 1600},
	{"1600-1799", 1800},
	{"1800-1999", 2000},
	{"2000-2199", 2200},
	{"2200-2399", 2400},
	{"2400+", 0},
}

// monthlyBands are the coarser difficulty bands used by the monthly
// breakdown. The monthly view keeps an explicit band for unrated problems
// where the histogram drops them; the two views deliberately disagree.
var monthlyBands = []struct {
	label string
	below int
}{
	{"800-1199", 1200},
	{"1200-1599", 1600},
	{"1600-1999", 2000},
	{"2000-2399", 2400},
	{"2400+", 0},
}

// BandUnrated is the monthly band label for problems without a rating.
const BandUnrated = "unrated"

// SummarizeRatings reduces a contest history to min/max/current rating.
// The history is taken in the supplied order: "current" is the rating after
// the last entry, whatever order the caller provided. An empty history
// yields all zeros.
func SummarizeRatings(history []ContestResult) RatingStats {
	if len(history) == 0 {
		return RatingStats{}
	}

	stats := RatingStats{
		Min:      history[0].NewRating,
		Max:      history[0].NewRating,
		Current:  history[len(history)-1].NewRating,
		Contests: len(history),
	}
	for _, c := range history[1:] {
		if c.NewRating < stats.Min {
			stats.Min = c.NewRating
		}
		if c.NewRating > stats.Max {
			stats.Max = c.NewRating
		}
	}
	return stats
}

// AverageRating returns the mean difficulty of rated solved problems,
// rounded to the nearest integer. Unrated problems are ignored; with no
// rated solves the average is 0.
func AverageRating(solved []SolvedProblem) int {
	sum, n := 0, 0
	for _, p := range solved {
		if p.IsRated() {
			sum += p.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// RatingDistribution histograms rated solved problems into the fixed
// difficulty buckets. Every bucket appears in the result even when empty;
// unrated problems are skipped.
func RatingDistribution(solved []SolvedProblem) []RatingBucket {
	counts := make(map[string]int, len(distributionBuckets))

	for _, p := range solved {
		if !p.IsRated() {
			continue
		}
		for _, b := range distributionBuckets {
			if b.below == 0 || p.Rating < b.below {
				counts[b.label]++
				break
			}
		}
	}

	out := make([]RatingBucket, 0, len(distributionBuckets))
	for _, b := range distributionBuckets {
		out = append(out, RatingBucket{Range: b.label, Count: counts[b.label]})
	}
	return out
}

// MonthlySolvedBreakdown groups solved problems by calendar month in loc,
// counting totals and per-band splits. Months are returned in ascending
// order; months with no solves do not appear.
func MonthlySolvedBreakdown(solved []SolvedProblem, loc *time.Location) []MonthlySolved {
	byMonth := make(map[string]*MonthlySolved)

	for _, p := range solved {
		if p.SolvedAt.IsZero() {
			continue
		}
		key := timeutil.MonthKey(p.SolvedAt, loc)
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlySolved{Month: key, Bands: make(map[string]int, len(monthlyBands)+1)}
			byMonth[key] = m
		}
		m.Count++
		m.Bands[bandFor(p.Rating)]++
	}

	out := make([]MonthlySolved, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func bandFor(rating int) string {
	if rating <= 0 {
		return BandUnrated
	}
	for _, b := range monthlyBands {
		if b.below == 0 || rating < b.below {
			return b.label
		}
	}
	return BandUnrated
}
