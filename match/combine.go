package match

import (
	"slices"

	"github.com/renovelt/catalog/core"
)

// Combine merges lexical and semantic candidate lists, deduplicating by
// entry ID. For each duplicated entry the higher-scoring candidate is
// retained, including its source provenance. Output is sorted by score
// descending, then by entry ID ascending so earlier-created entries win
// exact ties. Pure function, no I/O.
func Combine(lexical, semantic []core.MatchCandidate) []core.MatchCandidate {
	byEntry := make(map[core.ID]core.MatchCandidate, len(lexical)+len(semantic))

	for _, candidate := range lexical {
		if existing, ok := byEntry[candidate.EntryId]; ok && existing.Score >= candidate.Score {
			continue
		}
		byEntry[candidate.EntryId] = candidate
	}
	for _, candidate := range semantic {
		if existing, ok := byEntry[candidate.EntryId]; ok && existing.Score >= candidate.Score {
			continue
		}
		byEntry[candidate.EntryId] = candidate
	}

	combined := make([]core.MatchCandidate, 0, len(byEntry))
	for _, candidate := range byEntry {
		combined = append(combined, candidate)
	}

	sortCandidates(combined)
	return combined
}

// FilterByScore drops candidates scoring below floor. Used to cut noise
// candidates from the combined list before the policy decision.
func FilterByScore(candidates []core.MatchCandidate, floor float32) []core.MatchCandidate {
	filtered := candidates[:0]
	for _, candidate := range candidates {
		if candidate.Score >= floor {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

// sortCandidates orders by score descending, then entry ID ascending.
func sortCandidates(candidates []core.MatchCandidate) {
	slices.SortFunc(candidates, func(a, b core.MatchCandidate) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.EntryId < b.EntryId {
			return -1
		}
		if a.EntryId > b.EntryId {
			return 1
		}
		return 0
	})
}
