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

	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

// Default queue parameters.
const (
	DefaultWaitTimeout = 30 * time.Second

	// pollDivisor keeps the polling interval short relative to the wait
	// timeout so added latency stays bounded.
	pollDivisor = 60
)

// jobOutcome is the terminal result of a job, delivered to waiters.
type jobOutcome struct {
	vector []float32
	err    error
}

// Queue enqueues embedding jobs and lets callers wait for their results.
// Jobs are durable: a restart replays queued work. Completion is signaled
// in-process through subscriber channels, with storage polling as the
// fallback for jobs finished by another process.
type Queue struct {
	jobs        storage.JobRepository
	waitTimeout time.Duration
	logger      *slog.Logger

	mu          sync.Mutex
	subscribers map[core.ID][]chan jobOutcome

	// wake signals the worker pool that new work exists.
	wake chan struct{}
}

// QueueOption configures a Queue.
type QueueOption func(*Queue) error

// WithWaitTimeout sets the default timeout for Wait and Vector.
func WithWaitTimeout(timeout time.Duration) QueueOption {
	return func(q *Queue) error {
		if timeout > 0 {
			q.waitTimeout = timeout
		}
		return nil
	}
}

// WithQueueLogger sets a custom logger.
// Default is slog.Default().
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) error {
		if logger == nil {
			logger = slog.Default()
		}
		q.logger = logger
		return nil
	}
}

// NewQueue creates a queue over a durable job repository.
func NewQueue(jobs storage.JobRepository, opts ...QueueOption) (*Queue, error) {
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}

	q := &Queue{
		jobs:        jobs,
		waitTimeout: DefaultWaitTimeout,
		logger:      slog.Default(),
		subscribers: make(map[core.ID][]chan jobOutcome),
		wake:        make(chan struct{}, 1),
	}

	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// Enqueue persists a new embedding job for text. entryId may be zero for
// ad-hoc query embeddings; when set, the worker writes the finished
// vector through to that catalog entry.
func (q *Queue) Enqueue(ctx context.Context, text string, entryId core.ID) (*core.EmbeddingJob, error) {
	job := &core.EmbeddingJob{
		InputText: text,
		EntryId:   entryId,
	}
	if err := core.ValidateEmbeddingJob(job); err != nil {
		return nil, err
	}

	job, err := q.jobs.AddJob(ctx, job)
	if err != nil {
		return nil, err
	}

	q.logger.Debug("embedding job enqueued", "jobId", job.Id, "entryId", entryId)
	q.signalWake()
	return job, nil
}

// Status retrieves the current state of a job.
func (q *Queue) Status(ctx context.Context, id core.ID) (*core.EmbeddingJob, error) {
	return q.jobs.GetJob(ctx, id)
}

// Wait blocks until the job reaches a terminal state or timeout elapses,
// whichever comes first. On timeout the job is abandoned, not cancelled:
// it may still complete and serve future callers. A non-positive timeout
// uses the queue default.
func (q *Queue) Wait(ctx context.Context, id core.ID, timeout time.Duration) ([]float32, error) {
	if timeout <= 0 {
		timeout = q.waitTimeout
	}

	// Terminal already? Jobs can complete between Enqueue and Wait.
	if vector, done, err := q.checkTerminal(ctx, id); done {
		return vector, err
	}

	outcome := q.subscribe(id)
	defer q.unsubscribe(id, outcome)

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	poll := time.NewTicker(timeout / pollDivisor)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case result := <-outcome:
			return result.vector, result.err

		case <-poll.C:
			if vector, done, err := q.checkTerminal(ctx, id); done {
				return vector, err
			}

		case <-deadline.C:
			q.logger.Warn("abandoning wait for embedding job", "jobId", id, "timeout", timeout)
			return nil, fmt.Errorf("%w: job %d after %s", ErrEmbeddingTimeout, id, timeout)
		}
	}
}

// Vector enqueues an embedding job for text and waits for its result
// with the default timeout. This satisfies the resolver's VectorSource
// contract so the queued and direct paths are interchangeable.
func (q *Queue) Vector(ctx context.Context, text string) ([]float32, error) {
	job, err := q.Enqueue(ctx, text, 0)
	if err != nil {
		return nil, err
	}
	return q.Wait(ctx, job.Id, 0)
}

// Wake returns the channel the worker pool selects on for new work.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}

// publish delivers a terminal outcome to in-process waiters.
func (q *Queue) publish(id core.ID, outcome jobOutcome) {
	q.mu.Lock()
	waiters := q.subscribers[id]
	delete(q.subscribers, id)
	q.mu.Unlock()

	for _, ch := range waiters {
		select {
		case ch <- outcome:
		default:
		}
	}
}

func (q *Queue) subscribe(id core.ID) chan jobOutcome {
	ch := make(chan jobOutcome, 1)
	q.mu.Lock()
	q.subscribers[id] = append(q.subscribers[id], ch)
	q.mu.Unlock()
	return ch
}

func (q *Queue) unsubscribe(id core.ID, ch chan jobOutcome) {
	q.mu.Lock()
	defer q.mu.Unlock()

	waiters := q.subscribers[id]
	for i, existing := range waiters {
		if existing == ch {
			q.subscribers[id] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(q.subscribers[id]) == 0 {
		delete(q.subscribers, id)
	}
}

// checkTerminal reports whether the job finished, with its result.
func (q *Queue) checkTerminal(ctx context.Context, id core.ID) ([]float32, bool, error) {
	job, err := q.jobs.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, true, err
		}
		// Transient read failure; keep waiting
		q.logger.Warn("failed to poll job status", "jobId", id, "err", err)
		return nil, false, nil
	}

	switch job.Status {
	case core.JobCompleted:
		return job.Vector, true, nil
	case core.JobFailed:
		return nil, true, fmt.Errorf("%w: %s", ErrJobFailed, job.LastError)
	default:
		return nil, false, nil
	}
}

func (q *Queue) signalWake() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
