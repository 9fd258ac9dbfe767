package match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

// LexicalMatcher ranks catalog entries by fuzzy text similarity. The
// strategy is fixed at construction from the store's capabilities: either
// the store's native fuzzy operator or the in-process edit-distance
// scorer. Callers never see which one ran.
type LexicalMatcher struct {
	repository storage.CatalogRepository
	native     bool
	logger     *slog.Logger
}

// LexicalOption configures a LexicalMatcher.
type LexicalOption func(*LexicalMatcher) error

// WithLexicalLogger sets a custom logger.
// Default is slog.Default().
func WithLexicalLogger(logger *slog.Logger) LexicalOption {
	return func(m *LexicalMatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewLexicalMatcher creates a lexical matcher. caps comes from the store's
// one-time startup probe and selects the ranking strategy.
func NewLexicalMatcher(repository storage.CatalogRepository, caps storage.Capabilities, opts ...LexicalOption) (*LexicalMatcher, error) {
	if repository == nil {
		return nil, ErrCatalogRepositoryRequired
	}

	m := &LexicalMatcher{
		repository: repository,
		native:     caps.TextSearch,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// FindByText ranks entries by similarity to text, returning candidates
// whose score exceeds threshold, sorted descending, capped at limit.
// Every entry is scored twice, raw against raw and stripped against
// stripped, and keeps the higher score, so "Replace Subfloor" and
// "Subfloor Replacement" rank as the same work item.
func (m *LexicalMatcher) FindByText(ctx context.Context, text string, limit int, threshold float32) ([]core.MatchCandidate, error) {
	normalized := core.NormalizeText(text)
	stripped := StripGenericTokens(normalized)

	if m.native {
		candidates, err := m.nativeSearch(ctx, normalized, stripped, limit, threshold)
		if err == nil {
			return candidates, nil
		}
		if !errors.Is(err, storage.ErrTextSearchUnavailable) {
			return nil, err
		}
		// Capability lost after the startup probe; score in-process
		m.logger.Warn("native text search unavailable, using fallback scorer", "err", err)
	}

	return m.fallbackScan(ctx, normalized, stripped, limit, threshold)
}

// nativeSearch consults the store's fuzzy operator with the raw text
// and, when stripping changed it, with the token-stripped text as well.
// Hits are then rescored stripped-against-stripped in-process since the
// store only compares raw names.
func (m *LexicalMatcher) nativeSearch(ctx context.Context, normalized, stripped string, limit int, threshold float32) ([]core.MatchCandidate, error) {
	matches, err := m.repository.SearchByName(ctx, normalized, threshold, limit)
	if err != nil {
		return nil, err
	}
	if stripped != normalized {
		extra, err := m.repository.SearchByName(ctx, stripped, threshold, limit)
		if err != nil {
			return nil, err
		}
		matches = mergeMatches(matches, extra)
	}

	candidates := toCandidates(matches, core.SourceLexical)
	query := core.Trigrams(stripped)
	for i := range candidates {
		name := StripGenericTokens(core.NormalizeText(candidates[i].Name))
		if score := core.TrigramSimilarity(query, core.Trigrams(name)); score > candidates[i].Score {
			candidates[i].Score = score
		}
	}

	sortCandidates(candidates)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// mergeMatches unions two hit lists by entry, keeping the higher score.
func mergeMatches(base, extra []storage.TextMatch) []storage.TextMatch {
	index := make(map[core.ID]int, len(base))
	for i, hit := range base {
		index[hit.EntryId] = i
	}
	for _, hit := range extra {
		if i, ok := index[hit.EntryId]; ok {
			if hit.Score > base[i].Score {
				base[i].Score = hit.Score
			}
			continue
		}
		base = append(base, hit)
	}
	return base
}

// fallbackScan ranks the full entry set with the edit-distance scorer.
func (m *LexicalMatcher) fallbackScan(ctx context.Context, normalized, stripped string, limit int, threshold float32) ([]core.MatchCandidate, error) {
	entries, err := m.repository.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []core.MatchCandidate
	for _, entry := range entries {
		name := core.NormalizeText(entry.Name)
		score := FallbackScore(normalized, name)
		if s := FallbackScore(stripped, StripGenericTokens(name)); s > score {
			score = s
		}
		if score > threshold {
			candidates = append(candidates, core.MatchCandidate{
				EntryId: entry.Id,
				Name:    entry.Name,
				Score:   score,
				Source:  core.SourceFallback,
			})
		}
	}

	sortCandidates(candidates)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// toCandidates converts store matches into candidates with the given
// provenance, clamping scores into [0,1].
func toCandidates(matches []storage.TextMatch, source core.CandidateSource) []core.MatchCandidate {
	candidates := make([]core.MatchCandidate, 0, len(matches))
	for _, m := range matches {
		score := m.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		candidates = append(candidates, core.MatchCandidate{
			EntryId: m.EntryId,
			Name:    m.Name,
			Score:   score,
			Source:  source,
		})
	}
	return candidates
}
