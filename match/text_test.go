package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripGenericTokens(t *testing.T) {
	t.Run("strips work verbs", func(t *testing.T) {
		assert.Equal(t, "subfloor", StripGenericTokens("replace subfloor"))
		assert.Equal(t, "water heater", StripGenericTokens("water heater installation"))
		assert.Equal(t, "gutter and gutter", StripGenericTokens("repair gutter and service gutter"))
	})

	t.Run("collapses leftover whitespace", func(t *testing.T) {
		assert.Equal(t, "and tile", StripGenericTokens("install  and   replace tile"))
	})

	t.Run("falls back when stripped text is too short", func(t *testing.T) {
		assert.Equal(t, "replacement", StripGenericTokens("replacement"))
		assert.Equal(t, "install it", StripGenericTokens("install it"))
	})

	t.Run("does not strip inside words", func(t *testing.T) {
		assert.Equal(t, "reinstallment fee", StripGenericTokens("reinstallment fee"))
	})
}

func TestSplitFragments(t *testing.T) {
	t.Run("splits on sentence boundaries and conjunctions", func(t *testing.T) {
		fragments := SplitFragments("Replace subfloor in bathroom. Water damage near toilet; install new tile flooring and repaint the walls")
		assert.Equal(t, []string{
			"Replace subfloor in bathroom",
			"Water damage near toilet",
			"install new tile flooring",
			"repaint the walls",
		}, fragments)
	})

	t.Run("drops short fragments", func(t *testing.T) {
		fragments := SplitFragments("Fix it. Replace the entire subfloor")
		assert.Equal(t, []string{"Replace the entire subfloor"}, fragments)
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Empty(t, SplitFragments(""))
		assert.Empty(t, SplitFragments("short. no"))
	})
}
