package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

func TestJobLifecycle(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	job, err := jobRepo.AddJob(ctx, &core.EmbeddingJob{InputText: "drywall installation"})
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}
	if job.Id == 0 {
		t.Fatal("Expected non-zero job ID")
	}
	if job.Status != core.JobQueued {
		t.Fatalf("Expected queued status, got %s", job.Status)
	}

	claimed, err := jobRepo.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Failed to dequeue: %v", err)
	}
	if claimed.Id != job.Id {
		t.Fatalf("Expected job %d, got %d", job.Id, claimed.Id)
	}
	if claimed.Status != core.JobRunning {
		t.Fatalf("Expected running status, got %s", claimed.Status)
	}
	if claimed.Attempts != 1 {
		t.Fatalf("Expected 1 attempt, got %d", claimed.Attempts)
	}

	if err := jobRepo.CompleteJob(ctx, claimed.Id, []float32{0.1, 0.2}); err != nil {
		t.Fatalf("Failed to complete job: %v", err)
	}

	done, err := jobRepo.GetJob(ctx, claimed.Id)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if done.Status != core.JobCompleted {
		t.Fatalf("Expected completed status, got %s", done.Status)
	}
	if len(done.Vector) != 2 {
		t.Fatalf("Expected stored vector, got %v", done.Vector)
	}
	if !done.Status.Terminal() {
		t.Fatal("Expected completed to be terminal")
	}
}

func TestDequeueOrderAndEmpty(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = jobRepo.Dequeue(ctx)
	if !errors.Is(err, storage.ErrNoQueuedJobs) {
		t.Fatalf("Expected ErrNoQueuedJobs on empty queue, got %v", err)
	}

	first, err := jobRepo.AddJob(ctx, &core.EmbeddingJob{InputText: "first"})
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}
	second, err := jobRepo.AddJob(ctx, &core.EmbeddingJob{InputText: "second"})
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}

	claimed, err := jobRepo.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Failed to dequeue: %v", err)
	}
	if claimed.Id != first.Id {
		t.Fatalf("Expected oldest job %d first, got %d", first.Id, claimed.Id)
	}

	claimed, err = jobRepo.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Failed to dequeue: %v", err)
	}
	if claimed.Id != second.Id {
		t.Fatalf("Expected job %d second, got %d", second.Id, claimed.Id)
	}

	_, err = jobRepo.Dequeue(ctx)
	if !errors.Is(err, storage.ErrNoQueuedJobs) {
		t.Fatalf("Expected ErrNoQueuedJobs after draining, got %v", err)
	}
}

func TestFailJobRequeueAndFinal(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	job, err := jobRepo.AddJob(ctx, &core.EmbeddingJob{InputText: "flaky"})
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}

	claimed, err := jobRepo.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Failed to dequeue: %v", err)
	}

	// Non-final failure requeues the job
	if err := jobRepo.FailJob(ctx, claimed.Id, "provider unavailable", false); err != nil {
		t.Fatalf("Failed to fail job: %v", err)
	}

	requeued, err := jobRepo.GetJob(ctx, job.Id)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if requeued.Status != core.JobQueued {
		t.Fatalf("Expected requeued status, got %s", requeued.Status)
	}
	if requeued.LastError != "provider unavailable" {
		t.Fatalf("Expected recorded error, got '%s'", requeued.LastError)
	}

	claimed, err = jobRepo.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Failed to dequeue requeued job: %v", err)
	}
	if claimed.Attempts != 2 {
		t.Fatalf("Expected 2 attempts, got %d", claimed.Attempts)
	}

	// Final failure parks the job permanently
	if err := jobRepo.FailJob(ctx, claimed.Id, "provider unavailable", true); err != nil {
		t.Fatalf("Failed to fail job: %v", err)
	}

	failed, err := jobRepo.GetJob(ctx, job.Id)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if failed.Status != core.JobFailed {
		t.Fatalf("Expected failed status, got %s", failed.Status)
	}
	if !failed.Status.Terminal() {
		t.Fatal("Expected failed to be terminal")
	}

	_, err = jobRepo.Dequeue(ctx)
	if !errors.Is(err, storage.ErrNoQueuedJobs) {
		t.Fatalf("Expected empty queue after final failure, got %v", err)
	}
}
