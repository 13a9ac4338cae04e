package profile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagDistribution_CountsAndSorts(t *testing.T) {
	solved := []SolvedProblem{
		{Tags: []string{"dp", "math"}},
		{Tags: []string{"dp"}},
		{Tags: []string{"greedy", "dp"}},
	}

	dist := TagDistribution(solved)

	assert.Len(t, dist, 3)
	assert.Equal(t, TagCount{Tag: "dp", Count: 3}, dist[0])
	assert.Equal(t, TagCount{Tag: "math", Count: 1}, dist[1])
	assert.Equal(t, TagCount{Tag: "greedy", Count: 1}, dist[2])
}

func TestTagDistribution_TiesKeepFirstEncounterOrder(t *testing.T) {
	solved := []SolvedProblem{
		{Tags: []string{"graphs"}},
		{Tags: []string{"trees"}},
		{Tags: []string{"strings"}},
	}

	dist := TagDistribution(solved)

	assert.Equal(t, "graphs", dist[0].Tag)
	assert.Equal(t, "trees", dist[1].Tag)
	assert.Equal(t, "strings", dist[2].Tag)
}

func TestTagDistribution_FoldsTailIntoOther(t *testing.T) {
	// Twelve distinct tags with strictly decreasing counts 12..1.
	solved := make([]SolvedProblem, 0)
	for i := 0; i < 12; i++ {
		tag := fmt.Sprintf("tag%02d", i)
		for n := 0; n < 12-i; n++ {
			solved = append(solved, SolvedProblem{Tags: []string{tag}})
		}
	}

	dist := TagDistribution(solved)

	assert.Len(t, dist, 11)
	assert.Equal(t, "tag00", dist[0].Tag)
	assert.Equal(t, 12, dist[0].Count)

	last := dist[10]
	assert.Equal(t, TagOther, last.Tag)
	// Tags ranked 11 and 12 have counts 2 and 1.
	assert.Equal(t, 3, last.Count)
}

func TestTagDistribution_ExactlyTenTagsNoOther(t *testing.T) {
	solved := make([]SolvedProblem, 0, 10)
	for i := 0; i < 10; i++ {
		solved = append(solved, SolvedProblem{Tags: []string{fmt.Sprintf("tag%d", i)}})
	}

	dist := TagDistribution(solved)

	assert.Len(t, dist, 10)
	for _, tc := range dist {
		assert.NotEqual(t, TagOther, tc.Tag)
	}
}

func TestAllTags(t *testing.T) {
	solved := []SolvedProblem{
		{Tags: []string{"math", "dp"}},
		{Tags: []string{"dp", "greedy"}},
	}

	assert.Equal(t, []string{"dp", "greedy", "math"}, AllTags(solved))
}

func TestAllTags_Empty(t *testing.T) {
	assert.Empty(t, AllTags(nil))
}
