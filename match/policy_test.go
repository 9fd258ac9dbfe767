package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovelt/catalog/core"
)

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.NoError(t, Thresholds{Hard: 1, Soft: 0}.Validate())
	assert.NoError(t, Thresholds{Hard: 0.5, Soft: 0.5}.Validate())

	assert.ErrorIs(t, Thresholds{Hard: 0.5, Soft: 0.6}.Validate(), ErrInvalidThresholds)
	assert.ErrorIs(t, Thresholds{Hard: 1.1, Soft: 0.5}.Validate(), ErrInvalidThresholds)
	assert.ErrorIs(t, Thresholds{Hard: 0.5, Soft: -0.1}.Validate(), ErrInvalidThresholds)
}

func TestDecideThresholdGrid(t *testing.T) {
	grid := []Thresholds{
		{Hard: 0.85, Soft: 0.60},
		{Hard: 0.90, Soft: 0.30},
		{Hard: 0.50, Soft: 0.50},
		{Hard: 1.00, Soft: 0.00},
	}
	scores := []float32{0, 0.29, 0.30, 0.49, 0.50, 0.59, 0.60, 0.84, 0.85, 0.99, 1}

	for _, thresholds := range grid {
		for _, score := range scores {
			name := fmt.Sprintf("hard=%g soft=%g score=%g", thresholds.Hard, thresholds.Soft, score)
			t.Run(name, func(t *testing.T) {
				candidates := []core.MatchCandidate{{EntryId: 42, Name: "X", Score: score}}
				result := Decide(candidates, thresholds, core.EntrySeed{Name: "X"})

				switch {
				case score >= thresholds.Hard:
					assert.Equal(t, core.KindMatch, result.Kind)
					assert.Equal(t, core.ID(42), result.EntryId)
				case score >= thresholds.Soft:
					assert.Equal(t, core.KindReview, result.Kind)
					assert.Zero(t, result.EntryId)
				default:
					assert.Equal(t, core.KindCreate, result.Kind)
					assert.Equal(t, "X", result.Seed.Name)
				}
			})
		}
	}
}

func TestDecideEmptyCandidatesAlwaysCreate(t *testing.T) {
	seed := core.EntrySeed{Name: "brand new work", Unit: "m2"}
	result := Decide(nil, DefaultThresholds(), seed)
	assert.Equal(t, core.KindCreate, result.Kind)
	assert.Equal(t, seed, result.Seed)
	assert.Empty(t, result.Candidates)
}

func TestDecideHardTieChoosesEarliestEntry(t *testing.T) {
	// Candidates come pre-sorted by the combiner: score desc, id asc
	candidates := []core.MatchCandidate{
		{EntryId: 3, Score: 0.85},
		{EntryId: 9, Score: 0.85},
	}
	result := Decide(candidates, DefaultThresholds(), core.EntrySeed{})
	require.Equal(t, core.KindMatch, result.Kind)
	assert.Equal(t, core.ID(3), result.EntryId)
}

func TestDecideReviewFiltersBelowSoft(t *testing.T) {
	candidates := []core.MatchCandidate{
		{EntryId: 1, Score: 0.80},
		{EntryId: 2, Score: 0.65},
		{EntryId: 3, Score: 0.40},
	}
	result := Decide(candidates, DefaultThresholds(), core.EntrySeed{})
	require.Equal(t, core.KindReview, result.Kind)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, core.ID(1), result.Candidates[0].EntryId)
	assert.Equal(t, core.ID(2), result.Candidates[1].EntryId)
}

func TestDecideCreateKeepsLowScoreCandidates(t *testing.T) {
	candidates := []core.MatchCandidate{{EntryId: 1, Score: 0.40}}
	result := Decide(candidates, DefaultThresholds(), core.EntrySeed{Name: "new"})
	assert.Equal(t, core.KindCreate, result.Kind)
	assert.Len(t, result.Candidates, 1)
}
