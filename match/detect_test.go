package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovelt/catalog/core"
)

func TestNewDetector(t *testing.T) {
	t.Run("nil resolver", func(t *testing.T) {
		_, err := NewDetector(nil)
		assert.Error(t, err)
	})

	t.Run("valid configuration", func(t *testing.T) {
		resolver := newTestResolver(t, &stubRepo{})
		d, err := NewDetector(resolver)
		require.NoError(t, err)
		assert.NotNil(t, d)
	})
}

func TestDetectAggregatesFragments(t *testing.T) {
	repo := &stubRepo{
		entries: []*core.CatalogEntry{
			{Id: 1, Name: "Subfloor Replacement in bathroom"},
			{Id: 2, Name: "Tile flooring installation"},
		},
	}
	resolver := newTestResolver(t, repo)
	detector, err := NewDetector(resolver)
	require.NoError(t, err)

	result, err := detector.Detect(context.Background(),
		"Subfloor replacement in bathroom; water damage by the vanity and tile flooring installation")
	require.NoError(t, err)

	require.NotEmpty(t, result.Candidates)
	ids := make(map[core.ID]int)
	for _, c := range result.Candidates {
		ids[c.EntryId]++
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, "entry %d must appear once across fragments", id)
	}
	assert.Contains(t, ids, core.ID(1))
	assert.Contains(t, ids, core.ID(2))

	// The water-damage fragment matches nothing well
	assert.Contains(t, result.Unmatched, "water damage by the vanity")
}

func TestDetectShortTextYieldsEmptyResult(t *testing.T) {
	resolver := newTestResolver(t, &stubRepo{})
	detector, err := NewDetector(resolver)
	require.NoError(t, err)

	result, err := detector.Detect(context.Background(), "short")
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.Unmatched)
}

func TestDetectKeepsBestScoreAcrossFragments(t *testing.T) {
	repo := &stubRepo{
		entries: []*core.CatalogEntry{
			{Id: 1, Name: "Drywall patching"},
		},
	}
	resolver := newTestResolver(t, repo)
	detector, err := NewDetector(resolver)
	require.NoError(t, err)

	result, err := detector.Detect(context.Background(),
		"Drywall patching. drywall patching near the window")
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	// The exact fragment scores 1.0 and must win over the longer one
	assert.Equal(t, float32(1), result.Candidates[0].Score)
}
