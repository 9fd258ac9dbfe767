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


package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/renovelt/catalog/ai"
	"github.com/renovelt/catalog/ai/openai"
	"github.com/renovelt/catalog/backfill"
	"github.com/renovelt/catalog/cache"
	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/match"
	"github.com/renovelt/catalog/queue"
	"github.com/renovelt/catalog/storage"
	"github.com/renovelt/catalog/storage/badger"
	"github.com/renovelt/catalog/storage/postgres"
)

var (
	// ErrDuplicateEntry is returned when a new entry's name resolves to
	// an existing entry above the hard match threshold.
	ErrDuplicateEntry = errors.New("duplicate catalog entry")
)

// Engine wires storage, matching, the embedding queue and caching into
// one resolution service. The catalog lives either in the local badger
// store or in PostgreSQL; the job queue and result cache always stay
// local.
type Engine struct {
	backend  *badger.Backend
	catalog  storage.CatalogRepository
	jobs     storage.JobRepository
	provider ai.Provider
	caps     storage.Capabilities

	queue    *queue.Queue
	workers  *queue.WorkerPool
	lexical  *match.LexicalMatcher
	resolver *match.Resolver
	detector *match.Detector
	tags     cache.Store[[]storage.TagCount]

	thresholds match.Thresholds
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig    *ai.Config
	provider    ai.Provider
	postgresDSN string
	inMemory    bool
	thresholds  match.Thresholds
	concurrency int
	waitTimeout time.Duration
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI
// client. Used for offline runs and tests.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithPostgres stores the catalog in PostgreSQL instead of the local
// badger store. Text and vector search capabilities are probed once at
// startup from the connected database.
func WithPostgres(dsn string) EngineOption {
	return func(o *engineOptions) {
		o.postgresDSN = dsn
	}
}

// WithInMemoryStore keeps all local state in memory. Used in tests.
func WithInMemoryStore() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithDecisionThresholds sets the default hard and soft match
// thresholds for resolutions.
func WithDecisionThresholds(thresholds match.Thresholds) EngineOption {
	return func(o *engineOptions) {
		o.thresholds = thresholds
	}
}

// WithWorkerConcurrency sets the embedding worker pool size.
func WithWorkerConcurrency(size int) EngineOption {
	return func(o *engineOptions) {
		if size > 0 {
			o.concurrency = size
		}
	}
}

// WithEmbedWaitTimeout bounds how long a resolution waits for an
// embedding before degrading to lexical-only results.
func WithEmbedWaitTimeout(timeout time.Duration) EngineOption {
	return func(o *engineOptions) {
		if timeout > 0 {
			o.waitTimeout = timeout
		}
	}
}

// WithResultCacheTTL sets how long resolution results and tag
// aggregates stay cached.
func WithResultCacheTTL(ttl time.Duration) EngineOption {
	return func(o *engineOptions) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewEngine opens storage at filePath and assembles the resolution
// pipeline. The returned engine owns its resources; callers must Close
// it.
func NewEngine(ctx context.Context, filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:    ai.DefaultConfig(),
		thresholds:  match.DefaultThresholds(),
		concurrency: queue.DefaultConcurrency,
		waitTimeout: queue.DefaultWaitTimeout,
		cacheTTL:    match.DefaultCacheTTL,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.thresholds.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	jobs, err := badger.NewJobRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	var catalogRepo storage.CatalogRepository
	if options.postgresDSN != "" {
		catalogRepo, err = postgres.Open(options.postgresDSN)
	} else {
		catalogRepo, err = badger.NewCatalogRepository(backend)
	}
	if err != nil {
		jobs.Close()
		backend.Close()
		return nil, err
	}

	e := &Engine{
		backend:    backend,
		catalog:    catalogRepo,
		jobs:       jobs,
		thresholds: options.thresholds,
		cacheTTL:   options.cacheTTL,
		logger:     options.logger,
	}

	// Probed once; search paths trust these flags for the process
	// lifetime instead of re-checking per call.
	e.caps, err = catalogRepo.Capabilities(ctx)
	if err != nil {
		e.closePartial()
		return nil, err
	}

	e.provider = options.provider
	if e.provider == nil {
		e.provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			e.closePartial()
			return nil, err
		}
	}

	if err := e.assemble(options); err != nil {
		e.closePartial()
		return nil, err
	}

	e.workers.Start(context.Background())

	e.logger.Info("catalog engine ready",
		"textSearch", e.caps.TextSearch,
		"vectorSearch", e.caps.VectorSearch,
		"postgres", options.postgresDSN != "")
	return e, nil
}

// assemble builds the queue, workers, matchers and resolver on top of
// the opened repositories.
func (e *Engine) assemble(options *engineOptions) error {
	q, err := queue.NewQueue(e.jobs,
		queue.WithWaitTimeout(options.waitTimeout),
		queue.WithQueueLogger(e.logger))
	if err != nil {
		return err
	}
	e.queue = q

	e.workers, err = queue.NewWorkerPool(q, e.jobs, e.provider.Embedder(),
		queue.WithConcurrency(options.concurrency),
		queue.WithCatalogRepository(e.catalog),
		queue.WithWorkerLogger(e.logger))
	if err != nil {
		return err
	}

	e.lexical, err = match.NewLexicalMatcher(e.catalog, e.caps,
		match.WithLexicalLogger(e.logger))
	if err != nil {
		return err
	}

	semantic, err := match.NewSemanticMatcher(e.catalog, e.caps,
		match.WithSemanticLogger(e.logger))
	if err != nil {
		return err
	}

	results := cache.Open(e.backend, "rescache",
		func(result core.ResolutionResult) ([]byte, error) {
			return storage.MarshalResolutionResult(&result), nil
		},
		func(data []byte) (core.ResolutionResult, error) {
			result, err := storage.UnmarshalResolutionResult(data)
			if err != nil {
				return core.ResolutionResult{}, err
			}
			return *result, nil
		})

	e.resolver, err = match.NewResolver(e.lexical, semantic,
		match.WithVectorSource(q),
		match.WithCache(results),
		match.WithThresholds(options.thresholds),
		match.WithVectorTimeout(options.waitTimeout),
		match.WithCacheTTL(options.cacheTTL),
		match.WithResolverLogger(e.logger))
	if err != nil {
		return err
	}

	e.detector, err = match.NewDetector(e.resolver,
		match.WithDetectorLogger(e.logger))
	if err != nil {
		return err
	}

	e.tags = cache.NewMemory[[]storage.TagCount]()
	return nil
}

// Resolve matches a free-text description against the catalog and
// returns a match, review or create decision.
func (e *Engine) Resolve(ctx context.Context, text string) (core.ResolutionResult, error) {
	return e.resolver.Resolve(ctx, text)
}

// ResolveWithOptions resolves with per-call threshold and limit
// overrides. Zero fields fall back to engine defaults.
func (e *Engine) ResolveWithOptions(ctx context.Context, text string, opts match.Options) (core.ResolutionResult, error) {
	return e.resolver.ResolveWithOptions(ctx, text, opts, nil)
}

// Detect splits a multi-item description into fragments and resolves
// each against the catalog, reporting fragments no entry covers.
func (e *Engine) Detect(ctx context.Context, text string) (match.DetectResult, error) {
	return e.detector.Detect(ctx, text)
}

// CreateEntry adds a new catalog entry after checking it does not
// duplicate an existing one, then queues its embedding. The entry is
// usable immediately; semantic matches begin once the vector lands.
func (e *Engine) CreateEntry(ctx context.Context, name, unit string, tags ...string) (*core.CatalogEntry, error) {
	entry := &core.CatalogEntry{
		Name: core.CleanName(strings.TrimSpace(name)),
		Unit: strings.TrimSpace(unit),
	}
	for _, tag := range tags {
		entry.Tags = append(entry.Tags, core.NormalizeTag(tag))
	}
	if err := core.ValidateCatalogEntry(entry); err != nil {
		return nil, err
	}

	candidates, err := e.resolver.Candidates(ctx, entry.Name, match.DefaultLimit)
	if err != nil && !errors.Is(err, core.ErrInvalidInput) {
		return nil, err
	}
	if len(candidates) > 0 && candidates[0].Score >= e.thresholds.Hard {
		return nil, fmt.Errorf("%w: %q matches existing entry %d (%q, score %.2f)",
			ErrDuplicateEntry, entry.Name, candidates[0].EntryId, candidates[0].Name, candidates[0].Score)
	}

	added, err := e.catalog.AddEntries(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry = added[0]

	e.enqueueEmbedding(ctx, entry)
	return entry, nil
}

// UpdateEntry persists changes to an entry and queues a fresh embedding
// when the name changed.
func (e *Engine) UpdateEntry(ctx context.Context, entry *core.CatalogEntry) (*core.CatalogEntry, error) {
	if err := core.ValidateCatalogEntry(entry); err != nil {
		return nil, err
	}

	old, err := e.catalog.GetEntry(ctx, entry.Id)
	if err != nil {
		return nil, err
	}

	updated, err := e.catalog.UpdateEntries(ctx, entry)
	if err != nil {
		return nil, err
	}

	if core.NormalizeText(old.Name) != core.NormalizeText(entry.Name) {
		e.enqueueEmbedding(ctx, updated[0])
	}
	return updated[0], nil
}

// DeleteEntry removes an entry from the catalog.
func (e *Engine) DeleteEntry(ctx context.Context, id core.ID) error {
	return e.catalog.DeleteEntries(ctx, id)
}

// GetEntry retrieves an entry by ID.
func (e *Engine) GetEntry(ctx context.Context, id core.ID) (*core.CatalogEntry, error) {
	return e.catalog.GetEntry(ctx, id)
}

// ListEntries retrieves all catalog entries.
func (e *Engine) ListEntries(ctx context.Context) ([]*core.CatalogEntry, error) {
	return e.catalog.ListEntries(ctx)
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Imported int
	Skipped  int
	Failures []ImportFailure
}

// ImportFailure records one rejected import row.
type ImportFailure struct {
	Name   string
	Reason string
}

// ImportEntries bulk-adds entries without embedding them; run Backfill
// afterwards to fill in vectors. Rows that duplicate existing entries
// are skipped, invalid rows are reported, valid rows are stored.
func (e *Engine) ImportEntries(ctx context.Context, entries ...*core.CatalogEntry) (*ImportReport, error) {
	report := &ImportReport{}
	var accepted []*core.CatalogEntry

	for _, entry := range entries {
		entry.Name = core.CleanName(strings.TrimSpace(entry.Name))
		if err := core.ValidateCatalogEntry(entry); err != nil {
			report.Failures = append(report.Failures, ImportFailure{Name: entry.Name, Reason: err.Error()})
			continue
		}

		// Same guard as CreateEntry, minus the semantic leg: the lexical
		// matcher degrades to its in-process scorer on stores without a
		// fuzzy operator.
		matches, err := e.lexical.FindByText(ctx, entry.Name, 1, match.DefaultLexicalThreshold)
		if err != nil {
			return report, err
		}
		if len(matches) > 0 && matches[0].Score >= e.thresholds.Hard {
			report.Skipped++
			continue
		}

		accepted = append(accepted, entry)
	}

	if len(accepted) > 0 {
		added, err := e.catalog.AddEntries(ctx, accepted...)
		if err != nil {
			return report, err
		}
		report.Imported = len(added)
	}

	e.logger.Info("catalog import finished",
		"imported", report.Imported, "skipped", report.Skipped, "failed", len(report.Failures))
	return report, nil
}

// TagFrequencies aggregates entry tags with occurrence counts. Results
// are cached for the engine's cache TTL since tag distributions change
// slowly.
func (e *Engine) TagFrequencies(ctx context.Context, minCount int) ([]storage.TagCount, error) {
	key := cache.Fingerprint("tags", minCount)
	if counts, ok := e.tags.Get(key); ok {
		return counts, nil
	}

	counts, err := e.catalog.TagFrequencies(ctx, minCount)
	if err != nil {
		return nil, err
	}
	e.tags.Set(key, counts, e.cacheTTL)
	return counts, nil
}

// Backfill embeds every catalog entry without a stored vector.
// config may be nil for defaults; progress output goes to progress.
func (e *Engine) Backfill(ctx context.Context, config *backfill.Config, progress io.Writer) error {
	if progress == nil {
		progress = io.Discard
	}
	return backfill.NewBackfiller(e.catalog, e.provider.Embedder(), config, progress).Run(ctx)
}

// Queue exposes the embedding job queue for status inspection.
func (e *Engine) Queue() *queue.Queue {
	return e.queue
}

// Capabilities reports the search features the storage backend
// supports, as probed at startup.
func (e *Engine) Capabilities() storage.Capabilities {
	return e.caps
}

// enqueueEmbedding queues an embedding job for an entry. Failures are
// logged, not returned: the entry exists and lexical matching covers it
// until a backfill run supplies the vector.
func (e *Engine) enqueueEmbedding(ctx context.Context, entry *core.CatalogEntry) {
	if _, err := e.queue.Enqueue(ctx, core.NormalizeText(entry.Name), entry.Id); err != nil {
		e.logger.Warn("failed to queue entry embedding", "entryId", entry.Id, "err", err)
	}
}

// Close shuts the engine down: workers drain, the provider closes, then
// storage.
func (e *Engine) Close() error {
	if e.workers != nil {
		e.workers.Stop()
	}
	return e.closePartial()
}

func (e *Engine) closePartial() error {
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}

	var firstErr error
	if err := e.catalog.Close(); err != nil {
		e.logger.Error("error closing catalog repository", "err", err)
		firstErr = err
	}
	if err := e.jobs.Close(); err != nil {
		e.logger.Error("error closing job repository", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
