package match

import (
	"fmt"

	"github.com/renovelt/catalog/core"
)

// Default thresholds. Hand-tuned in production use, not derived; both are
// configurable and should not be treated as optimal.
const (
	DefaultHardThreshold float32 = 0.85
	DefaultSoftThreshold float32 = 0.60
)

// Thresholds holds the two score bars of the resolution policy: hard for
// fully automatic acceptance, soft for surfacing candidates to a human.
type Thresholds struct {
	Hard float32
	Soft float32
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Hard: DefaultHardThreshold, Soft: DefaultSoftThreshold}
}

// Validate checks 0 <= soft <= hard <= 1.
func (t Thresholds) Validate() error {
	if t.Soft < 0 || t.Hard > 1 || t.Soft > t.Hard {
		return fmt.Errorf("%w: soft=%g hard=%g", ErrInvalidThresholds, t.Soft, t.Hard)
	}
	return nil
}

// Decide applies the thresholds to a combined candidate list, sorted by
// score descending:
//   - top score >= hard: match, with the top candidate's entry chosen
//   - top score >= soft: review, with every candidate scoring >= soft
//   - otherwise: create, seeded from the unmatched input
//
// An empty candidate list always yields create.
func Decide(candidates []core.MatchCandidate, thresholds Thresholds, seed core.EntrySeed) core.ResolutionResult {
	if len(candidates) == 0 {
		return core.ResolutionResult{
			Kind: core.KindCreate,
			Seed: seed,
		}
	}

	top := candidates[0]
	if top.Score >= thresholds.Hard {
		return core.ResolutionResult{
			Kind:       core.KindMatch,
			EntryId:    top.EntryId,
			Candidates: candidates,
		}
	}

	if top.Score >= thresholds.Soft {
		reviewable := make([]core.MatchCandidate, 0, len(candidates))
		for _, candidate := range candidates {
			if candidate.Score >= thresholds.Soft {
				reviewable = append(reviewable, candidate)
			}
		}
		return core.ResolutionResult{
			Kind:       core.KindReview,
			Candidates: reviewable,
		}
	}

	return core.ResolutionResult{
		Kind:       core.KindCreate,
		Candidates: candidates,
		Seed:       seed,
	}
}
