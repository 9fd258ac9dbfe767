package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
// Queued jobs carry a secondary index keyed by enqueue time so Dequeue
// claims the oldest job first.
type JobRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) (*JobRepository, error) {
	idSeq, err := backend.GetSequence(jobIDSeq)
	if err != nil {
		return nil, err
	}

	return &JobRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *JobRepository) Close() error {
	return r.idSeq.Release()
}

// AddJob persists a new job in queued state.
func (r *JobRepository) AddJob(ctx context.Context, job *core.EmbeddingJob) (*core.EmbeddingJob, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		job.Id = core.ID(nextID)

		now := time.Now().UTC()
		job.Status = core.JobQueued
		job.Attempts = 0
		job.EnqueuedAt = now
		job.UpdatedAt = now

		if err := tx.Set(makeJobKey(job.Id), storage.MarshalEmbeddingJob(job)); err != nil {
			return err
		}
		queuedKey := makeJobQueuedKey(job.EnqueuedAt, job.Id)
		if err := tx.Set(queuedKey, storage.MarshalID(job.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return job, err
}

// GetJob retrieves a job by ID.
func (r *JobRepository) GetJob(ctx context.Context, id core.ID) (*core.EmbeddingJob, error) {
	var result *core.EmbeddingJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readJob(tx, makeJobKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Dequeue atomically claims the oldest queued job. Commit conflicts from
// concurrent claimers are retried against the next snapshot.
func (r *JobRepository) Dequeue(ctx context.Context) (*core.EmbeddingJob, error) {
	for {
		job, err := r.tryDequeue()
		if err == badger.ErrConflict {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		return job, err
	}
}

func (r *JobRepository) tryDequeue() (*core.EmbeddingJob, error) {
	var claimed *core.EmbeddingJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobQueuedPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		iter.Rewind()
		if !iter.Valid() {
			return storage.ErrNoQueuedJobs
		}

		queuedKey := iter.Item().KeyCopy(nil)
		var jobID core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			jobID, err = storage.UnmarshalID(val)
			return err
		})
		iter.Close()
		if err != nil {
			return err
		}

		job, err := r.readJob(tx, makeJobKey(jobID))
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}

		job.Status = core.JobRunning
		job.Attempts++
		job.UpdatedAt = time.Now().UTC()

		if err := tx.Delete(queuedKey); err != nil {
			return err
		}
		if err := tx.Set(makeJobKey(job.Id), storage.MarshalEmbeddingJob(job)); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}

		claimed = job
		return nil
	}, true)

	return claimed, err
}

// CompleteJob marks a job completed and stores its result vector.
func (r *JobRepository) CompleteJob(ctx context.Context, id core.ID, vector []float32) error {
	return r.updateJob(id, func(job *core.EmbeddingJob) error {
		job.Status = core.JobCompleted
		job.Vector = vector
		job.LastError = ""
		return nil
	})
}

// FailJob records a failure. Non-final failures requeue the job with its
// original queue position so retries run before newer work.
func (r *JobRepository) FailJob(ctx context.Context, id core.ID, jobErr string, final bool) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(id)

		job, err := r.readJob(tx, key)
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}

		job.LastError = jobErr
		job.UpdatedAt = time.Now().UTC()
		if final {
			job.Status = core.JobFailed
		} else {
			job.Status = core.JobQueued
			queuedKey := makeJobQueuedKey(job.EnqueuedAt, job.Id)
			if err := tx.Set(queuedKey, storage.MarshalID(job.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, storage.MarshalEmbeddingJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// readJob reads an embedding job from the transaction.
func (r *JobRepository) readJob(tx *badger.Txn, key []byte) (*core.EmbeddingJob, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var job *core.EmbeddingJob
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		job, unmarshalErr = storage.UnmarshalEmbeddingJob(val)
		return unmarshalErr
	})
	return job, err
}

// updateJob applies fn to the stored job and writes it back.
func (r *JobRepository) updateJob(id core.ID, fn func(job *core.EmbeddingJob) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(id)

		job, err := r.readJob(tx, key)
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}

		if err := fn(job); err != nil {
			return err
		}
		job.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalEmbeddingJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
