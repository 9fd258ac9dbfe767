package match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

// SemanticMatcher ranks catalog entries by vector similarity. Semantic
// matching is an enhancement: when the store has no vector index the
// matcher returns empty results instead of failing the resolution.
type SemanticMatcher struct {
	repository storage.CatalogRepository
	enabled    bool
	logger     *slog.Logger
}

// SemanticOption configures a SemanticMatcher.
type SemanticOption func(*SemanticMatcher) error

// WithSemanticLogger sets a custom logger.
// Default is slog.Default().
func WithSemanticLogger(logger *slog.Logger) SemanticOption {
	return func(m *SemanticMatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewSemanticMatcher creates a semantic matcher. caps comes from the
// store's one-time startup probe; without vector search the matcher is
// permanently disabled.
func NewSemanticMatcher(repository storage.CatalogRepository, caps storage.Capabilities, opts ...SemanticOption) (*SemanticMatcher, error) {
	if repository == nil {
		return nil, ErrCatalogRepositoryRequired
	}

	m := &SemanticMatcher{
		repository: repository,
		enabled:    caps.VectorSearch,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Enabled reports whether vector search is available at all. The resolver
// uses this to skip embedding acquisition entirely.
func (m *SemanticMatcher) Enabled() bool {
	return m.enabled
}

// FindByVector ranks entries by similarity to vector, capped at limit.
// Entries without stored embeddings are excluded. Malformed vectors are
// rejected with core.ErrInvalidVector.
func (m *SemanticMatcher) FindByVector(ctx context.Context, vector []float32, limit int) ([]core.MatchCandidate, error) {
	if err := core.ValidateVector(vector); err != nil {
		return nil, err
	}

	if !m.enabled {
		m.logger.Debug("vector search disabled, returning no semantic candidates")
		return nil, nil
	}

	matches, err := m.repository.NearestNeighbors(ctx, vector, limit)
	if err != nil {
		if errors.Is(err, storage.ErrVectorSearchUnavailable) {
			m.logger.Warn("vector search unavailable, returning no semantic candidates", "err", err)
			return nil, nil
		}
		return nil, err
	}

	return toCandidates(matches, core.SourceVector), nil
}
