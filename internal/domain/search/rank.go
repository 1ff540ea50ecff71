// Package search holds the scored-hit aggregation used to rank posts.
package search

import "sort"

// DefaultLimit caps the ranked result when the caller passes no limit.
const DefaultLimit = 3

// Hit is one raw per-(term, post) score returned by the index.
type Hit struct {
	Slug  string
	Score float64
}

// Ranked is one post with its aggregate relevance.
type Ranked struct {
	Slug  string
	Score float64
}

// Rank groups hits by slug, sums each group's scores into one relevance value
// per post, and returns the slugs in descending relevance order, truncated to
// limit. The sort is stable: ties keep first-appearance order.
func Rank(hits []Hit, limit int) []Ranked {
	if limit <= 0 {
		limit = DefaultLimit
	}

	index := make(map[string]int, len(hits))
	ranked := make([]Ranked, 0, len(hits))
	for _, hit := range hits {
		i, ok := index[hit.Slug]
		if !ok {
			i = len(ranked)
			index[hit.Slug] = i
			ranked = append(ranked, Ranked{Slug: hit.Slug})
		}
		ranked[i].Score += hit.Score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
