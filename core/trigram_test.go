package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigramSimilarity(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		assert.Equal(t, float32(1), TrigramSimilarity(Trigrams("drywall"), Trigrams("drywall")))
	})

	t.Run("disjoint strings", func(t *testing.T) {
		assert.Equal(t, float32(0), TrigramSimilarity(Trigrams("drywall"), Trigrams("концрете")))
	})

	t.Run("partial overlap", func(t *testing.T) {
		partial := TrigramSimilarity(Trigrams("drywall installation"), Trigrams("drywall removal"))
		assert.Greater(t, partial, float32(0))
		assert.Less(t, partial, float32(1))
	})

	t.Run("empty side scores zero", func(t *testing.T) {
		assert.Equal(t, float32(0), TrigramSimilarity(Trigrams(""), Trigrams("drywall")))
	})

	t.Run("short strings fall back to whole-string tokens", func(t *testing.T) {
		assert.Equal(t, float32(1), TrigramSimilarity(Trigrams("ab"), Trigrams("ab")))
	})
}
