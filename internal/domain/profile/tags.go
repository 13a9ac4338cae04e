package profile

import "sort"

// ══════════════════════════════════════════════════════════════════════════════
// TAG AGGREGATION
// ══════════════════════════════════════════════════════════════════════════════

// topTagLimit is how many individual tags the distribution keeps before
// folding the tail into "Other".
const topTagLimit = 10

// TagOther is the synthetic rollup entry for tags beyond the top ten.
const TagOther = "Other"

// TagDistribution counts tag occurrences across solved problems. A problem
// with N tags adds one to each of N counters. The result is sorted by count
// descending with ties kept in first-encounter order. When more than ten
// distinct tags exist, the top ten are kept and the rest collapse into a
// trailing "Other" entry holding their combined count.
func TagDistribution(solved []SolvedProblem) []TagCount {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, p := range solved {
		for _, tag := range p.Tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	all := make([]TagCount, 0, len(order))
	for _, tag := range order {
		all = append(all, TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Count > all[j].Count })

	if len(all) <= topTagLimit {
		return all
	}

	other := 0
	for _, tc := range all[topTagLimit:] {
		other += tc.Count
	}
	out := make([]TagCount, topTagLimit, topTagLimit+1)
	copy(out, all[:topTagLimit])
	return append(out, TagCount{Tag: TagOther, Count: other})
}

// AllTags returns the distinct tags across solved problems, sorted
// alphabetically. Used to populate filter choices.
func AllTags(solved []SolvedProblem) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, p := range solved {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
