package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovelt/catalog/core"
)

func TestCombineDeduplicatesKeepingMaxScore(t *testing.T) {
	lexical := []core.MatchCandidate{
		{EntryId: 1, Name: "Subfloor Repair", Score: 0.55, Source: core.SourceLexical},
		{EntryId: 2, Name: "Tile Flooring", Score: 0.40, Source: core.SourceLexical},
	}
	semantic := []core.MatchCandidate{
		{EntryId: 1, Name: "Subfloor Repair", Score: 0.80, Source: core.SourceVector},
		{EntryId: 3, Name: "Laminate", Score: 0.45, Source: core.SourceVector},
	}

	combined := Combine(lexical, semantic)
	require.Len(t, combined, 3)

	seen := make(map[core.ID]bool)
	for _, c := range combined {
		assert.False(t, seen[c.EntryId], "no duplicate entry ids")
		seen[c.EntryId] = true
	}

	// Entry 1 keeps the higher-scoring semantic hit, with its provenance
	assert.Equal(t, core.ID(1), combined[0].EntryId)
	assert.Equal(t, float32(0.80), combined[0].Score)
	assert.Equal(t, core.SourceVector, combined[0].Source)
}

func TestCombineKeepsLexicalProvenanceWhenLexicalWins(t *testing.T) {
	lexical := []core.MatchCandidate{
		{EntryId: 1, Name: "Subfloor", Score: 0.90, Source: core.SourceLexical},
	}
	semantic := []core.MatchCandidate{
		{EntryId: 1, Name: "Subfloor", Score: 0.70, Source: core.SourceVector},
	}

	combined := Combine(lexical, semantic)
	require.Len(t, combined, 1)
	assert.Equal(t, float32(0.90), combined[0].Score)
	assert.Equal(t, core.SourceLexical, combined[0].Source)
}

func TestCombineSortsByScoreThenEntryID(t *testing.T) {
	lexical := []core.MatchCandidate{
		{EntryId: 7, Score: 0.50},
		{EntryId: 3, Score: 0.50},
		{EntryId: 5, Score: 0.80},
	}

	combined := Combine(lexical, nil)
	require.Len(t, combined, 3)
	assert.Equal(t, core.ID(5), combined[0].EntryId)
	// Exact ties break by entry id ascending: earliest-created wins
	assert.Equal(t, core.ID(3), combined[1].EntryId)
	assert.Equal(t, core.ID(7), combined[2].EntryId)
}

func TestCombineDeduplicatesWithinOneList(t *testing.T) {
	aggregated := []core.MatchCandidate{
		{EntryId: 1, Score: 0.45},
		{EntryId: 1, Score: 0.75},
		{EntryId: 1, Score: 0.60},
	}

	combined := Combine(aggregated, nil)
	require.Len(t, combined, 1)
	assert.Equal(t, float32(0.75), combined[0].Score)
}

func TestCombineEmptyInputs(t *testing.T) {
	assert.Empty(t, Combine(nil, nil))

	only := []core.MatchCandidate{{EntryId: 1, Score: 0.5}}
	assert.Len(t, Combine(only, nil), 1)
	assert.Len(t, Combine(nil, only), 1)
}

func TestFilterByScore(t *testing.T) {
	candidates := []core.MatchCandidate{
		{EntryId: 1, Score: 0.80},
		{EntryId: 2, Score: 0.35},
		{EntryId: 3, Score: 0.34},
	}

	filtered := FilterByScore(candidates, 0.35)
	require.Len(t, filtered, 2)
	assert.Equal(t, core.ID(1), filtered[0].EntryId)
	assert.Equal(t, core.ID(2), filtered[1].EntryId)
}
