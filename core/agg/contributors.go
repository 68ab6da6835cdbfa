package agg

import (
	"cmp"
	"slices"

	"github.com/huangsam/gitpulse/core/field"
	"github.com/huangsam/gitpulse/schema"
)

// Rollup caps.
const (
	BreakdownLimit   = 6 // breakdown bars
	WhoDoesWhatLimit = 8 // "who does what" cards
	TopTagsLimit     = 5
)

// Contributors rolls commits up by mode, sorted by count descending with ties
// kept in discovery order, then capped at limit (limit <= 0 keeps every group).
func Contributors(commits []schema.Commit, mode schema.ContributorMode, limit int) []schema.ContributorGroup {
	if mode != schema.ContributorsTotal && mode != schema.ContributorsRepo {
		mode = schema.ContributorsIndividual
	}

	index := make(map[string]int)
	groups := make([]schema.ContributorGroup, 0)
	tagIndex := make([]map[string]int, 0)

	for _, c := range commits {
		key := GroupKey(c, mode)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			g := schema.ContributorGroup{
				Key:          key,
				Mode:         mode,
				Tags:         []schema.TagCount{},
				Complexities: []int{},
			}
			if mode == schema.ContributorsIndividual {
				g.Name = field.AuthorName(c)
			}
			groups = append(groups, g)
			tagIndex = append(tagIndex, make(map[string]int))
		}

		g := &groups[i]
		g.Count++
		g.Additions += field.Additions(c)
		g.Deletions += field.Deletions(c)
		if v, ok := field.Complexity(c); ok {
			g.Complexities = append(g.Complexities, v)
		}
		for _, tag := range field.Tags(c) {
			j, seen := tagIndex[i][tag]
			if !seen {
				j = len(g.Tags)
				tagIndex[i][tag] = j
				g.Tags = append(g.Tags, schema.TagCount{Tag: tag})
			}
			g.Tags[j].Count++
		}
	}

	slices.SortStableFunc(groups, func(a, b schema.ContributorGroup) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// ContributorCount returns the number of distinct author emails.
func ContributorCount(commits []schema.Commit) int {
	seen := make(map[string]struct{})
	for _, c := range commits {
		seen[field.AuthorEmail(c)] = struct{}{}
	}
	return len(seen)
}
