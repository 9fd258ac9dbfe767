// Copyright 2026 Renovelt Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package match

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/renovelt/catalog/ai"
	"github.com/renovelt/catalog/cache"
	"github.com/renovelt/catalog/core"
)

// Default resolver parameters.
const (
	DefaultLimit                    = 10
	DefaultLexicalThreshold float32 = 0.30
	DefaultSkipVectorBar    float32 = 0.85
	DefaultCandidateFloor   float32 = 0.35
	DefaultVectorTimeout            = 30 * time.Second
	DefaultCacheTTL                 = 10 * time.Minute
)

// VectorSource produces an embedding vector for query text. The queue
// and the direct provider client both implement it, so the resolver does
// not know whether embedding happens in-process or through a job.
type VectorSource interface {
	Vector(ctx context.Context, text string) ([]float32, error)
}

// EmbedderSource adapts an ai.Embedder into a VectorSource for direct,
// synchronous embedding.
type EmbedderSource struct {
	embedder ai.Embedder
}

var _ VectorSource = (*EmbedderSource)(nil)

// NewEmbedderSource wraps an embedder for direct embedding calls.
func NewEmbedderSource(embedder ai.Embedder) *EmbedderSource {
	return &EmbedderSource{embedder: embedder}
}

// Vector embeds text with a single provider call.
func (s *EmbedderSource) Vector(ctx context.Context, text string) ([]float32, error) {
	return s.embedder.EmbedText(ctx, text)
}

// Options override the resolver's configured thresholds and limit for a
// single call. Zero values fall back to the configured defaults.
type Options struct {
	Hard  float32
	Soft  float32
	Limit int
}

// Resolver resolves free text against the catalog by combining lexical
// and semantic matching, applying the threshold policy and memoizing
// results. All collaborators are injected; there is no hidden state.
type Resolver struct {
	lexical  *LexicalMatcher
	semantic *SemanticMatcher
	vectors  VectorSource
	cache    cache.Store[core.ResolutionResult]

	thresholds       Thresholds
	limit            int
	lexicalThreshold float32
	skipVectorBar    float32
	candidateFloor   float32
	vectorTimeout    time.Duration
	cacheTTL         time.Duration

	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithVectorSource sets the embedding source for the semantic path.
// Without one, resolution is lexical-only.
func WithVectorSource(vectors VectorSource) ResolverOption {
	return func(r *Resolver) error {
		r.vectors = vectors
		return nil
	}
}

// WithCache enables result memoization. Without a cache every call runs
// the full pipeline.
func WithCache(store cache.Store[core.ResolutionResult]) ResolverOption {
	return func(r *Resolver) error {
		r.cache = store
		return nil
	}
}

// WithThresholds sets the default decision thresholds.
func WithThresholds(thresholds Thresholds) ResolverOption {
	return func(r *Resolver) error {
		if err := thresholds.Validate(); err != nil {
			return err
		}
		r.thresholds = thresholds
		return nil
	}
}

// WithLimit sets the default candidate limit.
func WithLimit(limit int) ResolverOption {
	return func(r *Resolver) error {
		if limit > 0 {
			r.limit = limit
		}
		return nil
	}
}

// WithLexicalThreshold sets the minimum lexical similarity for a
// candidate to be considered at all.
func WithLexicalThreshold(threshold float32) ResolverOption {
	return func(r *Resolver) error {
		r.lexicalThreshold = threshold
		return nil
	}
}

// WithSkipVectorBar sets the lexical top score above which semantic
// matching is skipped as unnecessary cost.
func WithSkipVectorBar(bar float32) ResolverOption {
	return func(r *Resolver) error {
		r.skipVectorBar = bar
		return nil
	}
}

// WithCandidateFloor sets the minimum combined score below which
// candidates are dropped as noise.
func WithCandidateFloor(floor float32) ResolverOption {
	return func(r *Resolver) error {
		r.candidateFloor = floor
		return nil
	}
}

// WithVectorTimeout bounds how long one resolution waits for a vector.
// On expiry the resolution proceeds lexical-only; an in-flight embedding
// job is abandoned, not cancelled, so it can still complete for future
// callers.
func WithVectorTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) error {
		if timeout > 0 {
			r.vectorTimeout = timeout
		}
		return nil
	}
}

// WithCacheTTL sets how long resolution results stay memoized.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) error {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
		return nil
	}
}

// WithResolverLogger sets a custom logger.
// Default is slog.Default().
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a resolver over the two matchers.
func NewResolver(lexical *LexicalMatcher, semantic *SemanticMatcher, opts ...ResolverOption) (*Resolver, error) {
	if lexical == nil {
		return nil, ErrLexicalMatcherRequired
	}
	if semantic == nil {
		return nil, ErrSemanticMatcherRequired
	}

	r := &Resolver{
		lexical:          lexical,
		semantic:         semantic,
		thresholds:       DefaultThresholds(),
		limit:            DefaultLimit,
		lexicalThreshold: DefaultLexicalThreshold,
		skipVectorBar:    DefaultSkipVectorBar,
		candidateFloor:   DefaultCandidateFloor,
		vectorTimeout:    DefaultVectorTimeout,
		cacheTTL:         DefaultCacheTTL,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve resolves text with the configured defaults.
func (r *Resolver) Resolve(ctx context.Context, text string) (core.ResolutionResult, error) {
	return r.ResolveWithOptions(ctx, text, Options{}, nil)
}

// ResolveWithMonitor resolves text with monitoring callbacks at each
// pipeline stage.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, text string, monitor ResolveMonitor) (core.ResolutionResult, error) {
	return r.ResolveWithOptions(ctx, text, Options{}, monitor)
}

// ResolveWithOptions resolves text with per-call threshold and limit
// overrides. Zero option fields fall back to the configured defaults.
func (r *Resolver) ResolveWithOptions(ctx context.Context, text string, opts Options, monitor ResolveMonitor) (core.ResolutionResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(text)

	var zero core.ResolutionResult

	if err := core.ValidateQueryText(text); err != nil {
		return zero, err
	}

	thresholds, limit := r.effective(opts)
	if err := thresholds.Validate(); err != nil {
		return zero, err
	}

	normalized := core.NormalizeText(text)
	key := cache.Fingerprint(normalized, thresholds.Hard, thresholds.Soft, limit)

	if r.cache != nil {
		if result, ok := r.cache.Get(key); ok {
			r.logger.Debug("resolution cache hit", "text", normalized)
			monitor.CacheHit(result)
			monitor.Finish(result)
			return result, nil
		}
		r.logger.Debug("resolution cache miss", "text", normalized)
	}

	combined, err := r.candidates(ctx, normalized, limit, monitor)
	if err != nil {
		return zero, err
	}

	seed := core.EntrySeed{Name: core.CleanName(strings.TrimSpace(text))}
	result := Decide(combined, thresholds, seed)

	if r.cache != nil {
		r.cache.Set(key, result, r.cacheTTL)
	}

	monitor.Finish(result)
	return result, nil
}

// Candidates runs the matching pipeline without the policy decision,
// returning the combined, floored candidate list. Used by fragment
// detection, which aggregates candidates across fragments before ranking.
func (r *Resolver) Candidates(ctx context.Context, text string, limit int) ([]core.MatchCandidate, error) {
	if err := core.ValidateQueryText(text); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = r.limit
	}
	return r.candidates(ctx, core.NormalizeText(text), limit, &noopMonitor{})
}

// candidates is the shared lexical → semantic → combine → floor pipeline.
// Lexical matching always completes before the semantic decision is made.
func (r *Resolver) candidates(ctx context.Context, normalized string, limit int, monitor ResolveMonitor) ([]core.MatchCandidate, error) {
	lexical, err := r.lexical.FindByText(ctx, normalized, limit, r.lexicalThreshold)
	if err != nil {
		return nil, err
	}
	monitor.AfterLexical(lexical)

	var topLexical float32
	if len(lexical) > 0 {
		topLexical = lexical[0].Score
	}

	var semantic []core.MatchCandidate
	if r.vectors != nil && r.semantic.Enabled() {
		if topLexical >= r.skipVectorBar {
			r.logger.Debug("skipping semantic matching, lexical score is high enough",
				"score", topLexical)
			monitor.SemanticSkipped(topLexical)
		} else {
			semantic, err = r.semanticCandidates(ctx, normalized, limit, monitor)
			if err != nil {
				return nil, err
			}
		}
	}

	combined := FilterByScore(Combine(lexical, semantic), r.candidateFloor)
	monitor.AfterCombine(combined)
	return combined, nil
}

// semanticCandidates obtains a vector within the configured timeout and
// runs the semantic matcher. Provider failures and timeouts degrade to an
// empty list; only a malformed vector is a hard error.
func (r *Resolver) semanticCandidates(ctx context.Context, normalized string, limit int, monitor ResolveMonitor) ([]core.MatchCandidate, error) {
	vctx, cancel := context.WithTimeout(ctx, r.vectorTimeout)
	defer cancel()

	vector, err := r.vectors.Vector(vctx, normalized)
	if err != nil {
		r.logger.Warn("embedding unavailable, proceeding with lexical results only",
			"text", normalized, "err", err)
		monitor.SemanticDegraded(err)
		return nil, nil
	}

	semantic, err := r.semantic.FindByVector(ctx, vector, limit)
	if err != nil {
		if errors.Is(err, core.ErrInvalidVector) {
			return nil, err
		}
		r.logger.Warn("semantic matching failed, proceeding with lexical results only",
			"err", err)
		monitor.SemanticDegraded(err)
		return nil, nil
	}

	monitor.AfterSemantic(semantic)
	return semantic, nil
}

func (r *Resolver) effective(opts Options) (Thresholds, int) {
	thresholds := r.thresholds
	if opts.Hard > 0 {
		thresholds.Hard = opts.Hard
	}
	if opts.Soft > 0 {
		thresholds.Soft = opts.Soft
	}
	limit := r.limit
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	return thresholds, limit
}
