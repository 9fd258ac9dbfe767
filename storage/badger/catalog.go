package badger

import (
	"bytes"
	"context"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
// Similarity queries scan entry records in-process, so both capabilities
// are always available.
type CatalogRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	idSeq, err := backend.GetSequence(entryIDSeq)
	if err != nil {
		return nil, err
	}

	return &CatalogRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *CatalogRepository) Close() error {
	return r.idSeq.Release()
}

// AddEntries adds one or more catalog entries to storage.
func (r *CatalogRepository) AddEntries(ctx context.Context, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if entry.Id == 0 {
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
				entry.Id = core.ID(nextID)
			}

			now := time.Now().UTC()
			if entry.InsertedAt.IsZero() {
				entry.InsertedAt = now
			}
			entry.UpdatedAt = now
			if entry.Revision == 0 {
				entry.Revision = 1
			}

			key := makeEntryKey(entry.Id)
			if err := tx.Set(key, storage.MarshalCatalogEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// UpdateEntries updates existing catalog entries and bumps their revision.
func (r *CatalogRepository) UpdateEntries(ctx context.Context, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			key := makeEntryKey(entry.Id)

			old, err := r.readEntry(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			entry.InsertedAt = old.InsertedAt
			entry.Revision = old.Revision + 1
			entry.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalCatalogEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// DeleteEntries removes catalog entries by their IDs.
func (r *CatalogRepository) DeleteEntries(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEntryKey(id)

			entry, err := r.readEntry(tx, key)
			if err != nil {
				return err
			}
			if entry == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEntry retrieves a single catalog entry by ID.
func (r *CatalogRepository) GetEntry(ctx context.Context, id core.ID) (*core.CatalogEntry, error) {
	var result *core.CatalogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readEntry(tx, makeEntryKey(id))
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

// GetEntries retrieves multiple catalog entries by their IDs.
// Missing IDs are skipped rather than reported as errors.
func (r *CatalogRepository) GetEntries(ctx context.Context, ids ...core.ID) ([]*core.CatalogEntry, error) {
	var results []*core.CatalogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entry, err := r.readEntry(tx, makeEntryKey(id))
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListEntries retrieves all catalog entries.
func (r *CatalogRepository) ListEntries(ctx context.Context) ([]*core.CatalogEntry, error) {
	var results []*core.CatalogEntry
	err := r.scanEntries(func(entry *core.CatalogEntry) bool {
		results = append(results, entry)
		return true
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.CatalogEntry) int {
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	return results, nil
}

// EntriesWithoutVector retrieves up to limit entries with no stored
// embedding, ordered by ID.
func (r *CatalogRepository) EntriesWithoutVector(ctx context.Context, limit int) ([]*core.CatalogEntry, error) {
	entries, err := r.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	var results []*core.CatalogEntry
	for _, entry := range entries {
		if len(entry.Vector) > 0 {
			continue
		}
		results = append(results, entry)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// SetVector stores an embedding for an entry.
func (r *CatalogRepository) SetVector(ctx context.Context, id core.ID, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeEntryKey(id)

		entry, err := r.readEntry(tx, key)
		if err != nil {
			return err
		}
		if entry == nil {
			return storage.ErrNotFound
		}

		entry.Vector = vector
		entry.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalCatalogEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// SearchByName ranks entries by trigram overlap with the query text.
func (r *CatalogRepository) SearchByName(ctx context.Context, text string, minScore float32, limit int) ([]storage.TextMatch, error) {
	query := core.Trigrams(core.NormalizeText(text))

	var results []storage.TextMatch
	err := r.scanEntries(func(entry *core.CatalogEntry) bool {
		score := core.TrigramSimilarity(query, core.Trigrams(core.NormalizeText(entry.Name)))
		if score > minScore {
			results = append(results, storage.TextMatch{
				EntryId: entry.Id,
				Name:    entry.Name,
				Score:   score,
			})
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	sortMatches(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// NearestNeighbors ranks entries with stored embeddings by cosine
// similarity to the query vector. Entries without embeddings are skipped.
func (r *CatalogRepository) NearestNeighbors(ctx context.Context, vector []float32, limit int) ([]storage.TextMatch, error) {
	var results []storage.TextMatch
	err := r.scanEntries(func(entry *core.CatalogEntry) bool {
		if len(entry.Vector) == 0 {
			return true
		}
		results = append(results, storage.TextMatch{
			EntryId: entry.Id,
			Name:    entry.Name,
			Score:   cosineSimilarity(vector, entry.Vector),
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	sortMatches(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// TagFrequencies aggregates entry tags with their occurrence counts.
func (r *CatalogRepository) TagFrequencies(ctx context.Context, minCount int) ([]storage.TagCount, error) {
	counts := make(map[string]int)
	err := r.scanEntries(func(entry *core.CatalogEntry) bool {
		for _, tag := range entry.Tags {
			counts[tag]++
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	var results []storage.TagCount
	for tag, count := range counts {
		if count >= minCount {
			results = append(results, storage.TagCount{Tag: tag, Count: count})
		}
	}

	slices.SortFunc(results, func(a, b storage.TagCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return bytes.Compare([]byte(a.Tag), []byte(b.Tag))
	})

	return results, nil
}

// Capabilities reports that both similarity primitives are available.
// The in-process scans never lose capability at runtime.
func (r *CatalogRepository) Capabilities(ctx context.Context) (storage.Capabilities, error) {
	return storage.Capabilities{TextSearch: true, VectorSearch: true}, nil
}

// Helper methods

// readEntry reads a catalog entry from the transaction.
func (r *CatalogRepository) readEntry(tx *badger.Txn, key []byte) (*core.CatalogEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.CatalogEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalCatalogEntry(val)
		return unmarshalErr
	})
	return entry, err
}

// scanEntries iterates all entry records, invoking fn for each.
// Iteration stops early when fn returns false.
func (r *CatalogRepository) scanEntries(fn func(entry *core.CatalogEntry) bool) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			// Skip the sequence key, which shares the entry prefix
			if bytes.Equal(item.Key(), []byte(entryIDSeq)) {
				continue
			}

			var entry *core.CatalogEntry
			err := item.Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalCatalogEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}

			if !fn(entry) {
				return nil
			}
		}
		return nil
	}, false)
}

// sortMatches orders matches by score descending, then by entry ID
// ascending so older entries win score ties.
func sortMatches(matches []storage.TextMatch) {
	slices.SortFunc(matches, func(a, b storage.TextMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.EntryId < b.EntryId {
			return -1
		}
		if a.EntryId > b.EntryId {
			return 1
		}
		return 0
	})
}

// cosineSimilarity computes cosine similarity between two vectors,
// clamped to [0, 1].
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return float32(sim)
}
