package matching

import "sort"

// FindMatches scores every candidate of the opposite category against
// target and returns those scoring at least threshold, best first.
//
// The target itself (same ID) and same-category candidates are skipped.
// Equal scores keep their order from pool. A nil target or pool yields an
// empty result.
func (m *Matcher) FindMatches(target *Item, pool []Item, threshold int) []MatchResult {
	results := []MatchResult{}
	if target == nil || pool == nil {
		return results
	}

	for _, candidate := range pool {
		if candidate.ID == target.ID {
			continue
		}
		if candidate.Category == target.Category {
			continue
		}

		result := m.CalculateMatchScore(*target, candidate)
		if result.Score < threshold {
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// Best returns the top-ranked result, if any.
func Best(results []MatchResult) (MatchResult, bool) {
	if len(results) == 0 {
		return MatchResult{}, false
	}
	return results[0], true
}
