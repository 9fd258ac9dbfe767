package match

// FallbackScore computes a normalized edit-distance similarity in [0,1]:
// 1 - editDistance(a, b) / max(len(a), len(b)). Identical strings score
// 1.0; an empty string against a non-empty one scores 0.0. It preserves
// the score contract of the store-level fuzzy operator so callers cannot
// tell which strategy ranked their candidates.
func FallbackScore(a, b string) float32 {
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}

	distance := editDistance(ra, rb)
	return 1 - float32(distance)/float32(maxLen)
}

// editDistance computes Levenshtein distance with a two-row table.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			min := deletion
			if insertion < min {
				min = insertion
			}
			if substitution < min {
				min = substitution
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
