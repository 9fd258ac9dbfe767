package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntriesWithoutVectorQuery(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		query, args := entriesWithoutVectorQuery(50)
		assert.Contains(t, query, "LIMIT $1")
		assert.Equal(t, []any{50}, args)
	})

	t.Run("zero means all", func(t *testing.T) {
		query, args := entriesWithoutVectorQuery(0)
		assert.NotContains(t, query, "LIMIT")
		assert.Empty(t, args)
	})

	t.Run("negative means all", func(t *testing.T) {
		query, _ := entriesWithoutVectorQuery(-1)
		assert.NotContains(t, query, "LIMIT")
	})
}
