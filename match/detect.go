package match

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/renovelt/catalog/cache"
	"github.com/renovelt/catalog/core"
)

// minDetectLength is the minimum rune count for condition text worth
// splitting into fragments.
const minDetectLength = 10

// DefaultUnmatchedBar is the best-score bar below which a fragment is
// reported as unmatched, signaling that a new entry may be needed for it.
const DefaultUnmatchedBar float32 = 0.60

// DefaultFragmentCacheTTL is how long per-fragment candidate lists stay
// cached. Shorter than the resolution cache: fragment hits feed review
// flows that should pick up new entries quickly.
const DefaultFragmentCacheTTL = 5 * time.Minute

// DetectResult aggregates candidates across all fragments of a condition
// text, plus the fragments no candidate covered.
type DetectResult struct {
	// Candidates is the deduplicated candidate list across fragments,
	// best score first.
	Candidates []core.MatchCandidate

	// Unmatched holds fragments whose best candidate scored below the
	// unmatched bar.
	Unmatched []string
}

// Detector resolves multi-clause condition text by splitting it into
// fragments and aggregating per-fragment candidates.
type Detector struct {
	resolver     *Resolver
	unmatchedBar float32
	limit        int
	fragments    cache.Store[[]core.MatchCandidate]
	cacheTTL     time.Duration
	logger       *slog.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector) error

// WithUnmatchedBar sets the best-score bar for reporting a fragment as
// unmatched.
func WithUnmatchedBar(bar float32) DetectorOption {
	return func(d *Detector) error {
		d.unmatchedBar = bar
		return nil
	}
}

// WithDetectorLimit caps the aggregated candidate list.
func WithDetectorLimit(limit int) DetectorOption {
	return func(d *Detector) error {
		if limit > 0 {
			d.limit = limit
		}
		return nil
	}
}

// WithDetectorLogger sets a custom logger.
// Default is slog.Default().
func WithDetectorLogger(logger *slog.Logger) DetectorOption {
	return func(d *Detector) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// WithFragmentCacheTTL sets how long per-fragment candidate lists stay
// cached.
func WithFragmentCacheTTL(ttl time.Duration) DetectorOption {
	return func(d *Detector) error {
		if ttl > 0 {
			d.cacheTTL = ttl
		}
		return nil
	}
}

// NewDetector creates a detector over a resolver.
func NewDetector(resolver *Resolver, opts ...DetectorOption) (*Detector, error) {
	if resolver == nil {
		return nil, ErrResolverRequired
	}

	d := &Detector{
		resolver:     resolver,
		unmatchedBar: DefaultUnmatchedBar,
		limit:        DefaultLimit,
		fragments:    cache.NewMemory[[]core.MatchCandidate](),
		cacheTTL:     DefaultFragmentCacheTTL,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Detect splits text into fragments, resolves each and merges the
// candidates, keeping the best score per entry across fragments. Text too
// short to split yields an empty result rather than an error.
func (d *Detector) Detect(ctx context.Context, text string) (DetectResult, error) {
	var result DetectResult

	if len([]rune(strings.TrimSpace(text))) < minDetectLength {
		return result, nil
	}

	fragments := SplitFragments(text)
	d.logger.Debug("split condition text into fragments", "count", len(fragments))

	var aggregated []core.MatchCandidate
	for _, fragment := range fragments {
		hits, err := d.fragmentCandidates(ctx, fragment)
		if err != nil {
			return DetectResult{}, err
		}

		var best float32
		for _, hit := range hits {
			if hit.Score > best {
				best = hit.Score
			}
		}
		if best < d.unmatchedBar {
			result.Unmatched = append(result.Unmatched, fragment)
		}

		aggregated = append(aggregated, hits...)
	}

	// Combine dedupes by entry id keeping the best-scoring fragment's hit
	combined := Combine(aggregated, nil)
	if len(combined) > d.limit {
		combined = combined[:d.limit]
	}
	result.Candidates = combined

	return result, nil
}

// fragmentCandidates resolves one fragment's candidates through a short
// TTL cache, since long condition texts repeat fragments across calls.
func (d *Detector) fragmentCandidates(ctx context.Context, fragment string) ([]core.MatchCandidate, error) {
	key := cache.Fingerprint(core.NormalizeText(fragment), d.limit)
	if hits, ok := d.fragments.Get(key); ok {
		return hits, nil
	}

	hits, err := d.resolver.Candidates(ctx, fragment, d.limit)
	if err != nil {
		return nil, err
	}

	d.fragments.Set(key, hits, d.cacheTTL)
	return hits, nil
}
