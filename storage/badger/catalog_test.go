package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

func TestCatalogEntryBasics(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		jobRepo.Close()
		catalogRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	entry := &core.CatalogEntry{
		Name: "Drywall installation",
		Unit: "m2",
		Kind: "work",
	}

	added, err := catalogRepo.AddEntries(ctx, entry)
	if err != nil {
		t.Fatalf("Failed to add entry: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].Revision != 1 {
		t.Fatalf("Expected revision 1, got %d", added[0].Revision)
	}

	retrieved, err := catalogRepo.GetEntry(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if retrieved.Name != "Drywall installation" {
		t.Fatalf("Expected 'Drywall installation', got '%s'", retrieved.Name)
	}
	if retrieved.Unit != "m2" {
		t.Fatalf("Expected unit 'm2', got '%s'", retrieved.Unit)
	}
}

func TestCatalogEntryUpdateBumpsRevision(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := catalogRepo.AddEntries(ctx, &core.CatalogEntry{Name: "Tile grouting", Unit: "m2"})
	if err != nil {
		t.Fatalf("Failed to add entry: %v", err)
	}

	added[0].Name = "Ceramic tile grouting"
	updated, err := catalogRepo.UpdateEntries(ctx, added[0])
	if err != nil {
		t.Fatalf("Failed to update entry: %v", err)
	}
	if updated[0].Revision != 2 {
		t.Fatalf("Expected revision 2, got %d", updated[0].Revision)
	}

	retrieved, err := catalogRepo.GetEntry(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if retrieved.Name != "Ceramic tile grouting" {
		t.Fatalf("Expected updated name, got '%s'", retrieved.Name)
	}

	// Updating a missing entry fails
	_, err = catalogRepo.UpdateEntries(ctx, &core.CatalogEntry{Id: 9999, Name: "Ghost"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestCatalogEntryDelete(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := catalogRepo.AddEntries(ctx, &core.CatalogEntry{Name: "Window sealing", Unit: "pcs"})
	if err != nil {
		t.Fatalf("Failed to add entry: %v", err)
	}

	if err := catalogRepo.DeleteEntries(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}

	_, err = catalogRepo.GetEntry(ctx, added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestSearchByName(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	entries := []*core.CatalogEntry{
		{Name: "Drywall installation", Unit: "m2"},
		{Name: "Drywall removal", Unit: "m2"},
		{Name: "Concrete pouring", Unit: "m3"},
	}
	if _, err := catalogRepo.AddEntries(ctx, entries...); err != nil {
		t.Fatalf("Failed to add entries: %v", err)
	}

	matches, err := catalogRepo.SearchByName(ctx, "drywall installation", 0.3, 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("Expected matches")
	}
	if matches[0].Name != "Drywall installation" {
		t.Fatalf("Expected exact name first, got '%s'", matches[0].Name)
	}
	if matches[0].Score < 0.99 {
		t.Fatalf("Expected near-perfect score for exact match, got %f", matches[0].Score)
	}
	for _, m := range matches {
		if m.Name == "Concrete pouring" {
			t.Fatal("Unrelated entry should be below threshold")
		}
	}

	// Results ordered by score descending
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatal("Expected descending score order")
		}
	}
}

func TestNearestNeighbors(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	entries := []*core.CatalogEntry{
		{Name: "Close match", Unit: "pcs", Vector: []float32{1, 0, 0}},
		{Name: "Far match", Unit: "pcs", Vector: []float32{0, 1, 0}},
		{Name: "No vector", Unit: "pcs"},
	}
	if _, err := catalogRepo.AddEntries(ctx, entries...); err != nil {
		t.Fatalf("Failed to add entries: %v", err)
	}

	matches, err := catalogRepo.NearestNeighbors(ctx, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Failed to query neighbors: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches (entry without vector excluded), got %d", len(matches))
	}
	if matches[0].Name != "Close match" {
		t.Fatalf("Expected 'Close match' first, got '%s'", matches[0].Name)
	}
	if matches[0].Score < 0.99 {
		t.Fatalf("Expected similarity near 1 for identical vector, got %f", matches[0].Score)
	}
	if matches[1].Score > 0.01 {
		t.Fatalf("Expected similarity near 0 for orthogonal vector, got %f", matches[1].Score)
	}
}

func TestSetVectorAndBackfillQuery(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	entries := []*core.CatalogEntry{
		{Name: "Has vector", Unit: "pcs", Vector: []float32{0.5, 0.5}},
		{Name: "Missing one", Unit: "pcs"},
		{Name: "Missing two", Unit: "pcs"},
	}
	added, err := catalogRepo.AddEntries(ctx, entries...)
	if err != nil {
		t.Fatalf("Failed to add entries: %v", err)
	}

	missing, err := catalogRepo.EntriesWithoutVector(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to query entries without vector: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("Expected 2 entries without vector, got %d", len(missing))
	}

	if err := catalogRepo.SetVector(ctx, added[1].Id, []float32{0.1, 0.9}); err != nil {
		t.Fatalf("Failed to set vector: %v", err)
	}

	missing, err = catalogRepo.EntriesWithoutVector(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to query entries without vector: %v", err)
	}
	if len(missing) != 1 {
		t.Fatalf("Expected 1 entry without vector, got %d", len(missing))
	}
	if missing[0].Name != "Missing two" {
		t.Fatalf("Expected 'Missing two', got '%s'", missing[0].Name)
	}
}

func TestTagFrequencies(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	ctx := context.Background()

	entries := []*core.CatalogEntry{
		{Name: "A", Unit: "pcs", Tags: []string{"plumbing", "interior"}},
		{Name: "B", Unit: "pcs", Tags: []string{"plumbing"}},
		{Name: "C", Unit: "pcs", Tags: []string{"plumbing", "exterior"}},
		{Name: "D", Unit: "pcs", Tags: []string{"interior"}},
	}
	if _, err := catalogRepo.AddEntries(ctx, entries...); err != nil {
		t.Fatalf("Failed to add entries: %v", err)
	}

	counts, err := catalogRepo.TagFrequencies(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to aggregate tags: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Expected 2 tags with count >= 2, got %d", len(counts))
	}
	if counts[0].Tag != "plumbing" || counts[0].Count != 3 {
		t.Fatalf("Expected plumbing=3 first, got %s=%d", counts[0].Tag, counts[0].Count)
	}
	if counts[1].Tag != "interior" || counts[1].Count != 2 {
		t.Fatalf("Expected interior=2 second, got %s=%d", counts[1].Tag, counts[1].Count)
	}
}

func TestCapabilities(t *testing.T) {
	catalogRepo, jobRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { jobRepo.Close(); catalogRepo.Close(); backend.Close() }()

	caps, err := catalogRepo.Capabilities(context.Background())
	if err != nil {
		t.Fatalf("Failed to query capabilities: %v", err)
	}
	if !caps.TextSearch || !caps.VectorSearch {
		t.Fatalf("Expected both capabilities available, got %+v", caps)
	}
}
