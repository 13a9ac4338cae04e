package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sub(contestID int, index string, verdict Verdict, at time.Time) Submission {
	return Submission{
		ContestID:   contestID,
		Index:       index,
		Name:        "Problem " + index,
		Verdict:     verdict,
		SubmittedAt: at,
	}
}

func TestUniqueSolvedProblems_DeduplicatesByProblem(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	subs := []Submission{
		sub(100, "A", VerdictOK, base),
		sub(100, "A", VerdictOK, base.Add(2*time.Hour)),
		sub(100, "B", VerdictOK, base.Add(time.Hour)),
		sub(200, "A", VerdictOK, base.Add(3*time.Hour)),
	}

	solved := UniqueSolvedProblems(subs)

	assert.Len(t, solved, 3)
	keys := make(map[ProblemKey]int)
	for _, p := range solved {
		keys[ProblemKey{ContestID: p.ContestID, Index: p.Index}]++
	}
	for key, n := range keys {
		assert.Equal(t, 1, n, "problem %v appears more than once", key)
	}
}

func TestUniqueSolvedProblems_FirstSeenWins(t *testing.T) {
	early := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)

	// The later submission arrives first in the input; its timestamp is the
	// one that must survive.
	subs := []Submission{
		sub(100, "A", VerdictOK, late),
		sub(100, "A", VerdictOK, early),
	}

	solved := UniqueSolvedProblems(subs)

	assert.Len(t, solved, 1)
	assert.Equal(t, late, solved[0].SolvedAt)
}

func TestUniqueSolvedProblems_IgnoresRejected(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	subs := []Submission{
		sub(100, "A", VerdictWrongAnswer, base),
		sub(100, "B", VerdictTimeLimit, base),
		sub(100, "C", VerdictCompilationError, base),
	}

	assert.Empty(t, UniqueSolvedProblems(subs))
}

func TestUniqueSolvedProblems_RetainsUnrated(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := sub(100, "A", VerdictOK, base)
	s.Rating = 0
	s.Tags = []string{"implementation"}

	solved := UniqueSolvedProblems([]Submission{s})

	assert.Len(t, solved, 1)
	assert.False(t, solved[0].IsRated())
	assert.Equal(t, []string{"implementation"}, solved[0].Tags)
}

func TestUniqueSolvedProblems_PreservesInputOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	subs := []Submission{
		sub(300, "C", VerdictOK, base),
		sub(100, "A", VerdictOK, base),
		sub(200, "B", VerdictOK, base),
	}

	solved := UniqueSolvedProblems(subs)

	assert.Equal(t, 300, solved[0].ContestID)
	assert.Equal(t, 100, solved[1].ContestID)
	assert.Equal(t, 200, solved[2].ContestID)
}

func TestUniqueSolvedProblems_Idempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	subs := []Submission{
		sub(100, "A", VerdictOK, base),
		sub(100, "A", VerdictOK, base.Add(time.Hour)),
		sub(100, "B", VerdictWrongAnswer, base),
		sub(200, "A", VerdictOK, base.Add(2*time.Hour)),
	}

	first := UniqueSolvedProblems(subs)

	// Feed the result back through as if it were a submission list.
	again := make([]Submission, 0, len(first))
	for _, p := range first {
		again = append(again, Submission{
			ContestID:   p.ContestID,
			Index:       p.Index,
			Name:        p.Name,
			Verdict:     VerdictOK,
			Rating:      p.Rating,
			Tags:        p.Tags,
			SubmittedAt: p.SolvedAt,
		})
	}
	second := UniqueSolvedProblems(again)

	assert.Equal(t, first, second)
}

func TestAcceptedInPeriod(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	subs := []Submission{
		sub(100, "A", VerdictOK, now.AddDate(0, 0, -2)),
		sub(100, "B", VerdictOK, now.AddDate(0, 0, -20)),
		sub(100, "C", VerdictWrongAnswer, now.AddDate(0, 0, -1)),
	}

	assert.Equal(t, 1, AcceptedInPeriod(subs, 7, now))
	assert.Equal(t, 2, AcceptedInPeriod(subs, 30, now))
	assert.Equal(t, 0, AcceptedInPeriod(subs, 0, now))
}
