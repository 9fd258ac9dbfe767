package core

// Trigrams extracts the set of rune trigrams from normalized text.
// Strings shorter than three runes contribute themselves as a single token.
func Trigrams(text string) map[string]struct{} {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) < 3 {
		return map[string]struct{}{string(runes): {}}
	}

	set := make(map[string]struct{}, len(runes)-2)
	for i := 0; i <= len(runes)-3; i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// TrigramSimilarity computes Jaccard overlap between two trigram sets.
func TrigramSimilarity(left, right map[string]struct{}) float32 {
	if len(left) == 0 || len(right) == 0 {
		return 0
	}

	intersection := 0
	for token := range left {
		if _, ok := right[token]; ok {
			intersection++
		}
	}
	if intersection == 0 {
		return 0
	}

	union := len(left) + len(right) - intersection
	if union <= 0 {
		return 0
	}
	return float32(intersection) / float32(union)
}
