package retrieval

import (
	"sort"

	"ai-research-hub-be/pkg/store"
)

// DefaultKConst is the RRF smoothing constant. 60 keeps a single top rank
// from dominating candidates corroborated by both sources.
const DefaultKConst = 60

// FuseByReciprocalRank merges ranked candidate lists into one list scored
// by reciprocal rank: a candidate at 1-indexed rank r in a source list
// contributes 1/(kConst+r), and contributions for the same identifier sum
// across sources. Candidates present in only one source keep their single
// contribution. The result is sorted by fused score descending, ties
// broken by identifier ascending so runs are reproducible, and final
// 1-based ranks are assigned.
func FuseByReciprocalRank(kConst int, lists ...[]store.CandidateDocument) []store.FusedResult {
	if kConst <= 0 {
		kConst = DefaultKConst
	}

	byID := make(map[string]*store.FusedResult)

	for _, list := range lists {
		for i, cand := range list {
			rank := i + 1
			contribution := 1.0 / float64(kConst+rank)

			fused, ok := byID[cand.ID]
			if !ok {
				fused = &store.FusedResult{
					ID:          cand.ID,
					SourceRanks: make(map[store.Source]int),
					Title:       cand.Title,
					Snippet:     cand.Snippet,
					Metadata:    cand.Metadata,
				}
				byID[cand.ID] = fused
			}
			fused.Score += contribution
			fused.SourceRanks[cand.Source] = rank

			// Prefer the payload of the better-ranked contribution.
			if best, seen := bestRank(fused.SourceRanks, cand.Source); seen && best == rank {
				fused.Title = cand.Title
				fused.Snippet = cand.Snippet
				fused.Metadata = cand.Metadata
			}
		}
	}

	results := make([]store.FusedResult, 0, len(byID))
	for _, fused := range byID {
		results = append(results, *fused)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

// bestRank reports whether source holds the minimum rank in ranks.
func bestRank(ranks map[store.Source]int, source store.Source) (int, bool) {
	rank, ok := ranks[source]
	if !ok {
		return 0, false
	}
	for _, r := range ranks {
		if r < rank {
			return rank, false
		}
	}
	return rank, true
}
