package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	t.Run("trims and lowercases", func(t *testing.T) {
		assert.Equal(t, "subfloor replacement", NormalizeText("  Subfloor Replacement  "))
	})

	t.Run("replaces narrow no-break space", func(t *testing.T) {
		assert.Equal(t, "load-bearing wall", NormalizeText("Load Bearing Wall"))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeText("   "))
	})
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "plumbing", NormalizeTag("  Plumbing "))
	assert.Equal(t, "", NormalizeTag("   "))
}

func TestValidateQueryText(t *testing.T) {
	t.Run("valid text", func(t *testing.T) {
		assert.NoError(t, ValidateQueryText("replace subfloor"))
	})

	t.Run("empty text", func(t *testing.T) {
		err := ValidateQueryText("")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.ErrorIs(t, ValidateQueryText("   "), ErrInvalidInput)
	})

	t.Run("single rune", func(t *testing.T) {
		assert.ErrorIs(t, ValidateQueryText("x"), ErrInvalidInput)
	})
}

func TestValidateVector(t *testing.T) {
	t.Run("valid vector", func(t *testing.T) {
		assert.NoError(t, ValidateVector([]float32{0.1, 0.2, 0.3}))
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.ErrorIs(t, ValidateVector(nil), ErrInvalidVector)
		assert.ErrorIs(t, ValidateVector([]float32{}), ErrInvalidVector)
	})

	t.Run("NaN component", func(t *testing.T) {
		assert.ErrorIs(t, ValidateVector([]float32{0.1, float32(math.NaN())}), ErrInvalidVector)
	})

	t.Run("Inf component", func(t *testing.T) {
		assert.ErrorIs(t, ValidateVector([]float32{float32(math.Inf(1))}), ErrInvalidVector)
	})
}

func TestValidateCatalogEntry(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		assert.NoError(t, ValidateCatalogEntry(&CatalogEntry{Name: "Subfloor Replacement"}))
	})

	t.Run("nil entry", func(t *testing.T) {
		assert.ErrorIs(t, ValidateCatalogEntry(nil), ErrInvalidEntry)
	})

	t.Run("empty name", func(t *testing.T) {
		err := ValidateCatalogEntry(&CatalogEntry{Name: "  "})
		assert.ErrorIs(t, err, ErrInvalidEntry)
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestValidateEmbeddingJob(t *testing.T) {
	t.Run("valid job", func(t *testing.T) {
		assert.NoError(t, ValidateEmbeddingJob(&EmbeddingJob{InputText: "replace subfloor"}))
	})

	t.Run("nil job", func(t *testing.T) {
		assert.ErrorIs(t, ValidateEmbeddingJob(nil), ErrInvalidJob)
	})

	t.Run("short input", func(t *testing.T) {
		err := ValidateEmbeddingJob(&EmbeddingJob{InputText: ""})
		assert.ErrorIs(t, err, ErrInvalidJob)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
