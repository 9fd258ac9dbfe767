package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovelt/catalog/ai/mock"
	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
	badgerstore "github.com/renovelt/catalog/storage/badger"
)

func newTestWorker(t *testing.T, embedder *mock.MockEmbedder, opts ...WorkerOption) (*Queue, storage.CatalogRepository, *WorkerPool) {
	t.Helper()

	catalog, jobs, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	q, err := NewQueue(jobs)
	require.NoError(t, err)

	opts = append([]WorkerOption{
		WithConcurrency(1),
		WithRetryBaseDelay(time.Millisecond),
		WithCatalogRepository(catalog),
	}, opts...)
	pool, err := NewWorkerPool(q, jobs, embedder, opts...)
	require.NoError(t, err)

	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	return q, catalog, pool
}

func TestNewWorkerPoolRequiresDependencies(t *testing.T) {
	_, jobs, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	q, err := NewQueue(jobs)
	require.NoError(t, err)

	_, err = NewWorkerPool(nil, jobs, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrQueueRequired)

	_, err = NewWorkerPool(q, nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrJobRepositoryRequired)

	_, err = NewWorkerPool(q, jobs, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewWorkerPool(q, jobs, mock.NewMockEmbedder(), WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestWorkerCompletesJob(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	q, _, _ := newTestWorker(t, embedder)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, "replace water heater element", 0)
	require.NoError(t, err)

	vector, err := q.Wait(ctx, job.Id, 5*time.Second)
	require.NoError(t, err)
	assert.Len(t, vector, 384)

	got, err := q.Status(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobCompleted, got.Status)
	assert.Equal(t, vector, got.Vector)
}

func TestWorkerWritesVectorThroughToEntry(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	q, catalog, _ := newTestWorker(t, embedder)
	ctx := context.Background()

	entries, err := catalog.AddEntries(ctx, &core.CatalogEntry{
		Name: "Exterior Door Weatherstripping",
		Unit: "each",
	})
	require.NoError(t, err)
	entry := entries[0]

	job, err := q.Enqueue(ctx, entry.Name, entry.Id)
	require.NoError(t, err)

	vector, err := q.Wait(ctx, job.Id, 5*time.Second)
	require.NoError(t, err)

	got, err := catalog.GetEntry(ctx, entry.Id)
	require.NoError(t, err)
	assert.Equal(t, vector, got.Vector)
}

func TestWorkerRetriesTransientFailures(t *testing.T) {
	failures := 2
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("rate limited")
		}
		return []float32{0.25, 0.75}, nil
	}

	q, _, _ := newTestWorker(t, embedder, WithMaxAttempts(3))

	job, err := q.Enqueue(context.Background(), "recaulk shower enclosure", 0)
	require.NoError(t, err)

	vector, err := q.Wait(context.Background(), job.Id, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.75}, vector)
	assert.Zero(t, failures)
}

func TestWorkerFailsJobAfterMaxAttempts(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("provider down")
	}

	q, _, _ := newTestWorker(t, embedder, WithMaxAttempts(2))
	ctx := context.Background()

	job, err := q.Enqueue(ctx, "rewire detached garage subpanel", 0)
	require.NoError(t, err)

	_, err = q.Wait(ctx, job.Id, 5*time.Second)
	assert.ErrorIs(t, err, ErrJobFailed)
	assert.ErrorContains(t, err, "provider down")

	got, err := q.Status(ctx, job.Id)
	require.NoError(t, err)
	assert.Equal(t, core.JobFailed, got.Status)
	assert.Contains(t, got.LastError, "provider down")
	assert.Equal(t, 2, embedder.CallCount())
}

func TestWorkerDrainsBacklogOnStart(t *testing.T) {
	_, jobs, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	q, err := NewQueue(jobs)
	require.NoError(t, err)
	ctx := context.Background()

	// Enqueued before any worker exists, as after a restart.
	first, err := q.Enqueue(ctx, "patch stucco hairline cracks", 0)
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, "stain cedar fence panels", 0)
	require.NoError(t, err)

	pool, err := NewWorkerPool(q, jobs, mock.NewMockEmbedder(), WithConcurrency(1))
	require.NoError(t, err)
	pool.Start(ctx)
	t.Cleanup(pool.Stop)

	for _, id := range []core.ID{first.Id, second.Id} {
		vector, err := q.Wait(ctx, id, 5*time.Second)
		require.NoError(t, err)
		assert.NotEmpty(t, vector)
	}
}

func TestWorkerStopIsIdempotentBeforeStart(t *testing.T) {
	_, jobs, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	q, err := NewQueue(jobs)
	require.NoError(t, err)

	pool, err := NewWorkerPool(q, jobs, mock.NewMockEmbedder())
	require.NoError(t, err)

	// Stop without Start must not hang or panic.
	pool.Stop()
}
