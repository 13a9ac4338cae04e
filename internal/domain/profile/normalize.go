package profile

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION NORMALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// UniqueSolvedProblems reduces a raw submission history to the set of
// distinct solved problems. Only accepted submissions count; repeat solves
// of the same (contest, index) pair collapse to the first one encountered
// in input order, including its timestamp and metadata. Running the result
// through again changes nothing.
func UniqueSolvedProblems(subs []Submission) []SolvedProblem {
	seen := make(map[ProblemKey]struct{}, len(subs))
	solved := make([]SolvedProblem, 0, len(subs))

	for _, sub := range subs {
		if !sub.Verdict.IsAccepted() {
			continue
		}

		key := sub.ProblemKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		solved = append(solved, SolvedProblem{
			ContestID: sub.ContestID,
			Index:     sub.Index,
			Name:      sub.Name,
			Rating:    sub.Rating,
			Tags:      sub.Tags,
			SolvedAt:  sub.SubmittedAt,
		})
	}

	return solved
}

// AcceptedInPeriod counts accepted submissions made within the trailing
// window of whole days ending at now. Duplicates count; this measures
// activity volume, not distinct solves.
func AcceptedInPeriod(subs []Submission, days int, now time.Time) int {
	if days <= 0 {
		return 0
	}
	cutoff := now.AddDate(0, 0, -days)
	count := 0
	for _, sub := range subs {
		if sub.Verdict.IsAccepted() && !sub.SubmittedAt.Before(cutoff) {
			count++
		}
	}
	return count
}
