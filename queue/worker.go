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


package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/renovelt/catalog/ai"
	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

// Default worker parameters. Concurrency stays low to respect embedding
// provider rate limits.
const (
	DefaultConcurrency    = 2
	DefaultMaxAttempts    = 3
	DefaultRetryBaseDelay = 1 * time.Second
	DefaultIdlePoll       = 1 * time.Second
)

// WorkerPool drains the embedding job queue with a bounded pool of
// workers. Delivery is at-least-once; embedding the same text twice is
// harmless since results are deterministic, so workers stay idempotent.
type WorkerPool struct {
	queue    *Queue
	jobs     storage.JobRepository
	catalog  storage.CatalogRepository
	embedder ai.Embedder
	pool     *ants.Pool

	maxAttempts    int
	retryBaseDelay time.Duration
	idlePoll       time.Duration
	logger         *slog.Logger

	cancel  context.CancelFunc
	stopped chan struct{}
	wg      sync.WaitGroup
}

// WorkerOption configures a WorkerPool.
type WorkerOption func(*WorkerPool) error

// WithConcurrency sets the worker pool size.
// Default is DefaultConcurrency.
func WithConcurrency(size int) WorkerOption {
	return func(w *WorkerPool) error {
		if size < 1 {
			size = 1
		}
		if w.pool != nil {
			w.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		w.pool = pool
		return nil
	}
}

// WithMaxAttempts bounds provider retries per job before it is marked
// failed permanently.
func WithMaxAttempts(attempts int) WorkerOption {
	return func(w *WorkerPool) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		w.maxAttempts = attempts
		return nil
	}
}

// WithRetryBaseDelay sets the base delay for exponential backoff between
// provider retries.
func WithRetryBaseDelay(delay time.Duration) WorkerOption {
	return func(w *WorkerPool) error {
		if delay > 0 {
			w.retryBaseDelay = delay
		}
		return nil
	}
}

// WithCatalogRepository enables write-through of finished vectors to
// catalog entries for jobs carrying an entry ID.
func WithCatalogRepository(catalog storage.CatalogRepository) WorkerOption {
	return func(w *WorkerPool) error {
		w.catalog = catalog
		return nil
	}
}

// WithIdlePoll sets how often an idle pool re-checks the queue. The wake
// signal usually preempts it; the poll covers jobs enqueued by another
// process against the same database.
func WithIdlePoll(interval time.Duration) WorkerOption {
	return func(w *WorkerPool) error {
		if interval > 0 {
			w.idlePoll = interval
		}
		return nil
	}
}

// WithWorkerLogger sets a custom logger.
// Default is slog.Default().
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *WorkerPool) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWorkerPool creates a worker pool over a queue.
func NewWorkerPool(queue *Queue, jobs storage.JobRepository, embedder ai.Embedder, opts ...WorkerOption) (*WorkerPool, error) {
	if queue == nil {
		return nil, ErrQueueRequired
	}
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	pool, err := ants.NewPool(DefaultConcurrency)
	if err != nil {
		return nil, err
	}

	w := &WorkerPool{
		queue:          queue,
		jobs:           jobs,
		embedder:       embedder,
		pool:           pool,
		maxAttempts:    DefaultMaxAttempts,
		retryBaseDelay: DefaultRetryBaseDelay,
		idlePoll:       DefaultIdlePoll,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			w.pool.Release()
			return nil, err
		}
	}

	return w, nil
}

// Start launches the dispatch loop. It returns immediately; jobs are
// processed until Stop is called or ctx is cancelled.
func (w *WorkerPool) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.stopped = make(chan struct{})

	go w.dispatch(ctx)
}

// Stop halts dispatching, waits for in-flight jobs and releases the
// pool. Unfinished jobs stay queued for the next start.
func (w *WorkerPool) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.stopped
	w.wg.Wait()
	w.pool.Release()
}

// dispatch claims queued jobs and hands them to the pool.
func (w *WorkerPool) dispatch(ctx context.Context) {
	defer close(w.stopped)

	idle := time.NewTicker(w.idlePoll)
	defer idle.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.jobs.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrNoQueuedJobs) {
				select {
				case <-ctx.Done():
					return
				case <-w.queue.Wake():
				case <-idle.C:
				}
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("failed to dequeue embedding job", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-idle.C:
			}
			continue
		}

		w.wg.Add(1)
		claimed := job
		if submitErr := w.pool.Submit(func() {
			defer w.wg.Done()
			w.process(ctx, claimed)
		}); submitErr != nil {
			w.wg.Done()
			w.logger.Error("failed to submit embedding job", "jobId", claimed.Id, "err", submitErr)
			w.requeue(claimed, submitErr)
		}
	}
}

// process embeds one job's text with bounded retries and records the
// terminal state.
func (w *WorkerPool) process(ctx context.Context, job *core.EmbeddingJob) {
	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vector, embedErr = w.embedder.EmbedText(ctx, job.InputText)
		return embedErr
	}, w.maxAttempts, w.retryBaseDelay)

	if err != nil {
		if ctx.Err() != nil {
			// Shutdown, not a provider verdict: leave the job queued
			w.requeue(job, err)
			return
		}

		w.logger.Error("embedding job failed permanently",
			"jobId", job.Id, "attempts", w.maxAttempts, "err", err)
		if failErr := w.jobs.FailJob(context.Background(), job.Id, err.Error(), true); failErr != nil {
			w.logger.Error("failed to record job failure", "jobId", job.Id, "err", failErr)
		}
		// Same wrapping as the polled path in checkTerminal
		w.queue.publish(job.Id, jobOutcome{err: fmt.Errorf("%w: %s", ErrJobFailed, err)})
		return
	}

	if completeErr := w.jobs.CompleteJob(context.Background(), job.Id, vector); completeErr != nil {
		w.logger.Error("failed to record job completion", "jobId", job.Id, "err", completeErr)
	}

	if job.EntryId != 0 && w.catalog != nil {
		// Last write wins; embeddings are deterministic per text
		if setErr := w.catalog.SetVector(context.Background(), job.EntryId, vector); setErr != nil {
			w.logger.Warn("failed to store entry vector", "entryId", job.EntryId, "err", setErr)
		}
	}

	w.queue.publish(job.Id, jobOutcome{vector: vector})
	w.logger.Debug("embedding job completed", "jobId", job.Id, "dims", len(vector))
}

// requeue returns a claimed job to the queue after an interrupted run.
func (w *WorkerPool) requeue(job *core.EmbeddingJob, cause error) {
	if err := w.jobs.FailJob(context.Background(), job.Id, cause.Error(), false); err != nil {
		w.logger.Error("failed to requeue embedding job", "jobId", job.Id, "err", err)
	}
}
