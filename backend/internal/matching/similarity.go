package matching

// JaccardSimilarity returns |A∩B| / |A∪B| in [0, 1].
// Two empty sets carry no evidence of similarity and score 0.
func JaccardSimilarity(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for t := range small {
		if large.Has(t) {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
