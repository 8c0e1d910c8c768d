package search

import "sort"

// normalize enforces the canonical hit contract: scores clamped to
// [0,1], deterministic ordering (descending score, then ascending path,
// then ascending start line), and the limit applied after sorting.
func normalize(hits []Hit, limit int) []Hit {
	for i := range hits {
		if hits[i].Score > 1 {
			hits[i].Score = 1
		}
		if hits[i].Score < 0 {
			hits[i].Score = 0
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Path != hits[j].Path {
			return hits[i].Path < hits[j].Path
		}
		return hits[i].StartLine < hits[j].StartLine
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
