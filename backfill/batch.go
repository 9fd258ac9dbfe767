package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/renovelt/catalog/ai"
	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/queue"
	"github.com/renovelt/catalog/storage"
)

// BatchProcessor handles embedding generation for batches of catalog entries.
type BatchProcessor struct {
	repo           storage.CatalogRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.CatalogRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds a batch of entries and stores the vectors. Entry names
// are normalized before embedding so lookups and stored vectors agree.
// Vectors are normalized after embedding for cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, entries []*core.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = core.NormalizeText(entry.Name)
	}

	var embeddings [][]float32
	err := queue.RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(entries) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entries), len(embeddings))
	}

	for i, entry := range entries {
		vector := NormalizeVector(embeddings[i])
		if err := bp.repo.SetVector(ctx, entry.Id, vector); err != nil {
			return fmt.Errorf("failed to store vector for entry %d: %w", entry.Id, err)
		}
	}

	return nil
}
