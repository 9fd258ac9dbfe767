package storage

import (
	"context"

	"github.com/renovelt/catalog/core"
)

// Capabilities describes which similarity primitives the catalog store
// supports natively. Detection runs once at startup; the result is injected
// into the matchers so no component sniffs error strings at query time.
type Capabilities struct {
	// TextSearch is true when the store can rank entries by fuzzy text
	// similarity itself (e.g. pg_trgm).
	TextSearch bool

	// VectorSearch is true when the store can rank entries by vector
	// distance itself (e.g. pgvector).
	VectorSearch bool
}

// TextMatch is one row from a similarity query: an entry with its raw score.
type TextMatch struct {
	EntryId core.ID
	Name    string
	Score   float32
}

// TagCount is one row from a tag frequency aggregation.
type TagCount struct {
	Tag   string
	Count int
}

// CatalogRepository provides operations for managing catalog entries and
// querying them by similarity. Implementations must be thread-safe.
type CatalogRepository interface {
	// AddEntries adds one or more catalog entries to storage.
	// For entries with ID=0, generates new IDs from sequence.
	// Sets InsertedAt/UpdatedAt and Revision 1 if not already set.
	// Returns the entries with generated IDs and timestamps populated.
	AddEntries(ctx context.Context, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error)

	// UpdateEntries updates existing catalog entries and bumps their
	// Revision. Returns ErrNotFound if any entry doesn't exist.
	UpdateEntries(ctx context.Context, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error)

	// DeleteEntries removes catalog entries by their IDs.
	// Returns ErrNotFound if any entry doesn't exist.
	DeleteEntries(ctx context.Context, ids ...core.ID) error

	// GetEntry retrieves a single catalog entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id core.ID) (*core.CatalogEntry, error)

	// GetEntries retrieves multiple catalog entries by their IDs.
	// Returns only the entries that exist (no error for missing entries).
	GetEntries(ctx context.Context, ids ...core.ID) ([]*core.CatalogEntry, error)

	// ListEntries retrieves all catalog entries. Used by the in-process
	// fallback ranker and by bulk administration.
	ListEntries(ctx context.Context) ([]*core.CatalogEntry, error)

	// EntriesWithoutVector retrieves up to limit entries that have no
	// stored embedding, ordered by ID. A limit of zero or less returns
	// all such entries. Used by the backfill process.
	EntriesWithoutVector(ctx context.Context, limit int) ([]*core.CatalogEntry, error)

	// SetVector stores an embedding for an entry. Writes are idempotent;
	// last write wins since embeddings are deterministic for identical
	// input text and provider version.
	SetVector(ctx context.Context, id core.ID, vector []float32) error

	// SearchByName ranks entries by fuzzy text similarity to text.
	// Returns matches with score > minScore, ordered by score descending,
	// capped at limit. Returns ErrTextSearchUnavailable when the store
	// has no native fuzzy operator.
	SearchByName(ctx context.Context, text string, minScore float32, limit int) ([]TextMatch, error)

	// NearestNeighbors ranks entries with stored embeddings by similarity
	// to vector, computed as 1 - distance, capped at limit. Entries with
	// no embedding are excluded. Returns ErrVectorSearchUnavailable when
	// the store has no vector index.
	NearestNeighbors(ctx context.Context, vector []float32, limit int) ([]TextMatch, error)

	// TagFrequencies aggregates entry tags with their occurrence counts,
	// filtered to counts >= minCount, ordered by count descending.
	TagFrequencies(ctx context.Context, minCount int) ([]TagCount, error)

	// Capabilities reports which similarity primitives the store supports.
	// Called once at startup; the result is cached by the engine.
	Capabilities(ctx context.Context) (Capabilities, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// JobRepository provides durable storage for embedding jobs.
// Implementations must be thread-safe; Dequeue must hand each queued job to
// exactly one concurrent caller (delivery is still at-least-once across
// crashes, so consumers must be idempotent).
type JobRepository interface {
	// AddJob persists a new job in JobQueued state, generating its ID.
	AddJob(ctx context.Context, job *core.EmbeddingJob) (*core.EmbeddingJob, error)

	// GetJob retrieves a job by ID. Returns ErrNotFound if it doesn't exist.
	GetJob(ctx context.Context, id core.ID) (*core.EmbeddingJob, error)

	// Dequeue atomically claims the oldest queued job, marking it
	// JobRunning and incrementing Attempts. Returns ErrNoQueuedJobs when
	// the queue is empty.
	Dequeue(ctx context.Context) (*core.EmbeddingJob, error)

	// CompleteJob marks a job JobCompleted and stores its result vector.
	CompleteJob(ctx context.Context, id core.ID, vector []float32) error

	// FailJob records a failure. When final is false the job is requeued
	// for another attempt; when true it is marked JobFailed permanently.
	FailJob(ctx context.Context, id core.ID, jobErr string, final bool) error

	// Close closes the storage backend and releases resources.
	Close() error
}
