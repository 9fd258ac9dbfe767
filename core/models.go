package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CatalogEntry is a canonical unit of work or material in the catalog.
// The embedding vector is populated lazily by the embedding queue or the
// backfill process; an entry is fully matchable by the lexical path before
// its vector exists.
type CatalogEntry struct {
	Id         ID
	Name       string
	Unit       string            // suggested unit of measure ("sqft", "each", ...)
	Kind       string            // caller-owned classification ("service", "material")
	Tags       []string          // normalized lowercase tags
	Revision   int32             // bumped on every update; renames trigger re-embedding
	Vector     []float32         // embedding of Name (populated asynchronously)
	Metadata   map[string]string // cost and measurement fields owned by external collaborators
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// CandidateSource identifies which retrieval strategy produced a candidate.
type CandidateSource int32

const (
	// SourceLexical is the store-native fuzzy text search.
	SourceLexical CandidateSource = iota + 1
	// SourceVector is embedding nearest-neighbor search.
	SourceVector
	// SourceFallback is the in-process edit-distance scorer.
	SourceFallback
)

// String returns the wire name of the source.
func (s CandidateSource) String() string {
	switch s {
	case SourceLexical:
		return "lexical"
	case SourceVector:
		return "vector"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// MatchCandidate is a scored catalog entry produced for one query.
// Scores are always in [0,1] regardless of source, so thresholds are
// source-independent. Candidates are ephemeral and never persisted.
type MatchCandidate struct {
	EntryId ID
	Name    string
	Score   float32
	Source  CandidateSource
}

// ResolutionKind is the outcome of a resolution call.
type ResolutionKind int32

const (
	// KindMatch means the top candidate is accepted automatically.
	KindMatch ResolutionKind = iota + 1
	// KindReview means candidates are returned for human disambiguation.
	KindReview
	// KindCreate means no acceptable candidate exists and a new entry
	// should be minted from the seed.
	KindCreate
)

// String returns the wire name of the kind.
func (k ResolutionKind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindReview:
		return "review"
	case KindCreate:
		return "create"
	default:
		return "unknown"
	}
}

// EntrySeed carries the normalized fields to mint a new catalog entry from
// when a resolution ends in KindCreate. Entry creation itself is delegated
// to the caller.
type EntrySeed struct {
	Name string
	Unit string
}

// ResolutionResult is the decision for one resolution call.
// Candidates are ordered by descending score.
type ResolutionResult struct {
	Kind       ResolutionKind
	EntryId    ID // set only when Kind == KindMatch
	Candidates []MatchCandidate
	Seed       EntrySeed
}

// JobStatus is the lifecycle state of an embedding job.
type JobStatus int32

const (
	JobQueued JobStatus = iota + 1
	JobRunning
	JobCompleted
	JobFailed
)

// String returns the wire name of the status.
func (s JobStatus) String() string {
	switch s {
	case JobQueued:
		return "queued"
	case JobRunning:
		return "running"
	case JobCompleted:
		return "completed"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// EmbeddingJob is a durable unit of embedding work. Jobs are delivered
// at least once; recomputing the same embedding is idempotent since the
// provider is deterministic for identical input text.
type EmbeddingJob struct {
	Id         ID
	InputText  string
	EntryId    ID // optional: entry to write the vector through to (0 for ad-hoc query embeddings)
	Status     JobStatus
	Vector     []float32
	Attempts   int32
	LastError  string
	EnqueuedAt time.Time
	UpdatedAt  time.Time
}
