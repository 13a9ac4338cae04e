// Package query contains read operations (CQRS - Queries).
// Queries never change state; the profile view functions here are pure
// filter/sort passes over in-memory analytics for presentation.
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cf-hub/cf-progress-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// SORT KEYS
// ══════════════════════════════════════════════════════════════════════════════

// ProblemSortKey selects the field solved problems sort by.
type ProblemSortKey string

const (
	ProblemSortDate    ProblemSortKey = "date"
	ProblemSortRating  ProblemSortKey = "rating"
	ProblemSortName    ProblemSortKey = "name"
	ProblemSortContest ProblemSortKey = "contest"
)

// ContestSortKey selects the field contest results sort by.
type ContestSortKey string

const (
	ContestSortDate   ContestSortKey = "date"
	ContestSortRating ContestSortKey = "rating"
	ContestSortChange ContestSortKey = "change"
	ContestSortRank   ContestSortKey = "rank"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROBLEM VIEW
// ══════════════════════════════════════════════════════════════════════════════

// ProblemFilter parameterizes the solved-problem view.
type ProblemFilter struct {
	// Search matches case-insensitively against problem name and index,
	// and as a substring of the contest ID.
	Search string

	// Tag keeps only problems carrying the tag (case-insensitive exact
	// match). Empty means no tag filter.
	Tag string

	// SortBy selects the sort field; unknown keys keep input order.
	SortBy ProblemSortKey

	// Direction defaults to ascending.
	Direction SortDirection
}

// FilterProblems applies the filter and sort to a solved-problem list.
// The input is never mutated; missing values sort as zero.
func FilterProblems(problems []profile.SolvedProblem, f ProblemFilter) []profile.SolvedProblem {
	search := strings.ToLower(f.Search)
	tag := strings.ToLower(f.Tag)

	out := make([]profile.SolvedProblem, 0, len(problems))
	for _, p := range problems {
		if search != "" && !problemMatches(p, search) {
			continue
		}
		if tag != "" && !hasTag(p.Tags, tag) {
			continue
		}
		out = append(out, p)
	}

	less := problemLess(f.SortBy)
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool {
			if f.Direction == SortDesc {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}

	return out
}

func problemMatches(p profile.SolvedProblem, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Index), search) ||
		strings.Contains(strconv.Itoa(p.ContestID), search)
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.ToLower(t) == want {
			return true
		}
	}
	return false
}

func problemLess(key ProblemSortKey) func(a, b profile.SolvedProblem) bool {
	switch key {
	case ProblemSortDate:
		return func(a, b profile.SolvedProblem) bool { return a.SolvedAt.Before(b.SolvedAt) }
	case ProblemSortRating:
		return func(a, b profile.SolvedProblem) bool { return a.Rating < b.Rating }
	case ProblemSortName:
		return func(a, b profile.SolvedProblem) bool { return a.Name < b.Name }
	case ProblemSortContest:
		return func(a, b profile.SolvedProblem) bool { return a.ContestID < b.ContestID }
	default:
		return nil
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEST VIEW
// ══════════════════════════════════════════════════════════════════════════════

// ContestFilter parameterizes the contest history view.
type ContestFilter struct {
	// Search matches case-insensitively against the contest name and as
	// a substring of the rank.
	Search string

	// SortBy selects the sort field; unknown keys keep input order.
	SortBy ContestSortKey

	// Direction defaults to ascending.
	Direction SortDirection
}

// FilterContests applies the filter and sort to a contest history.
// The input is never mutated.
func FilterContests(contests []profile.ContestResult, f ContestFilter) []profile.ContestResult {
	search := strings.ToLower(f.Search)

	out := make([]profile.ContestResult, 0, len(contests))
	for _, c := range contests {
		if search != "" && !contestMatches(c, search) {
			continue
		}
		out = append(out, c)
	}

	less := contestLess(f.SortBy)
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool {
			if f.Direction == SortDesc {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}

	return out
}

func contestMatches(c profile.ContestResult, search string) bool {
	return strings.Contains(strings.ToLower(c.ContestName), search) ||
		strings.Contains(strconv.Itoa(c.Rank), search)
}

func contestLess(key ContestSortKey) func(a, b profile.ContestResult) bool {
	switch key {
	case ContestSortDate:
		return func(a, b profile.ContestResult) bool { return a.RatedAt.Before(b.RatedAt) }
	case ContestSortRating:
		return func(a, b profile.ContestResult) bool { return a.NewRating < b.NewRating }
	case ContestSortChange:
		return func(a, b profile.ContestResult) bool { return a.Delta() < b.Delta() }
	case ContestSortRank:
		return func(a, b profile.ContestResult) bool { return a.Rank < b.Rank }
	default:
		return nil
	}
}
