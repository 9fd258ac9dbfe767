package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackScoreSelfMatch(t *testing.T) {
	for _, text := range []string{"", "a", "subfloor replacement", "утепление фасада"} {
		assert.Equal(t, float32(1), FallbackScore(text, text), "self-match must be perfect for %q", text)
	}
}

func TestFallbackScoreEmptyVersusNonEmpty(t *testing.T) {
	assert.Equal(t, float32(0), FallbackScore("", "subfloor"))
	assert.Equal(t, float32(0), FallbackScore("subfloor", ""))
}

func TestFallbackScoreKnownDistance(t *testing.T) {
	// editDistance(kitten, sitting) = 3, max length 7
	assert.InDelta(t, 1-3.0/7.0, FallbackScore("kitten", "sitting"), 1e-6)

	// One substitution over four runes
	assert.InDelta(t, 0.75, FallbackScore("tile", "tale"), 1e-6)
}

func TestFallbackScoreRange(t *testing.T) {
	pairs := [][2]string{
		{"subfloor replacement", "subfloor repair"},
		{"a", "completely different text"},
		{"short", "also short"},
	}
	for _, p := range pairs {
		score := FallbackScore(p[0], p[1])
		assert.GreaterOrEqual(t, score, float32(0))
		assert.LessOrEqual(t, score, float32(1))
		assert.Equal(t, score, FallbackScore(p[1], p[0]), "distance is symmetric")
	}
}
