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


package backfill

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/renovelt/catalog/ai"
	"github.com/renovelt/catalog/storage"
)

// Config holds configuration for the backfill operation.
type Config struct {
	// BatchSize is the number of entries to embed in each provider call
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Backfiller embeds every catalog entry that has no stored vector.
// Entries accumulate without vectors when they are imported in bulk or
// when their embedding jobs failed permanently.
type Backfiller struct {
	repo      storage.CatalogRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewBackfiller creates a new backfiller.
// progress: where to write progress output (typically os.Stderr)
func NewBackfiller(repo storage.CatalogRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Backfiller {
	if config == nil {
		config = DefaultConfig()
	}

	return &Backfiller{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run executes the backfill. Entries missing a vector are embedded in
// batches; progress is reported to the configured writer.
func (b *Backfiller) Run(ctx context.Context) error {
	pending, err := b.repo.EntriesWithoutVector(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to query entries: %w", err)
	}

	total := len(pending)
	if total == 0 {
		fmt.Fprintf(b.progress, "All catalog entries already have vectors (0 pending)\n")
		return nil
	}

	fmt.Fprintf(b.progress, "Starting backfill of %d entries (batch size: %d)\n",
		total, b.config.BatchSize)

	tracker := NewProgressTracker(b.progress, total, b.config.ReportInterval)
	tracker.Start()

	for start := 0; start < total; start += b.config.BatchSize {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		end := start + b.config.BatchSize
		if end > total {
			end = total
		}

		if err := b.processor.Process(ctx, pending[start:end]); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		tracker.Update(end)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(b.progress, "Backfill complete. Embedded %d entries in %v (%.1f entries/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
