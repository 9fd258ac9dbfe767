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


package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/renovelt/catalog/core"
	"github.com/renovelt/catalog/storage"
)

// Store implements storage.CatalogRepository on PostgreSQL. Fuzzy text
// search uses pg_trgm and vector search uses pgvector; both are optional.
// Availability is probed once in Open and frozen into Capabilities, so
// query paths never inspect operator errors at runtime.
type Store struct {
	db     *sql.DB
	caps   storage.Capabilities
	logger *slog.Logger
}

var _ storage.CatalogRepository = (*Store)(nil)

// Open connects to PostgreSQL, ensures the catalog schema exists and
// probes which similarity extensions are installed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default(),
	}

	s.caps = s.detectCapabilities(ctx)
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("postgres catalog store opened",
		"text_search", s.caps.TextSearch,
		"vector_search", s.caps.VectorSearch)

	return s, nil
}

// detectCapabilities probes the similarity extensions once. A failed probe
// just disables the capability; the engine wires fallbacks accordingly.
func (s *Store) detectCapabilities(ctx context.Context) storage.Capabilities {
	var caps storage.Capabilities

	var sim float64
	if err := s.db.QueryRowContext(ctx, `SELECT similarity('probe', 'probe')`).Scan(&sim); err == nil {
		caps.TextSearch = true
	} else {
		s.logger.Warn("pg_trgm unavailable, fuzzy text search disabled", "error", err)
	}

	var lit string
	if err := s.db.QueryRowContext(ctx, `SELECT '[1]'::vector::text`).Scan(&lit); err == nil {
		caps.VectorSearch = true
	} else {
		s.logger.Warn("pgvector unavailable, vector search disabled", "error", err)
	}

	return caps
}

// ensureSchema creates the catalog table. Embeddings live in a pgvector
// column when the extension is installed, otherwise in a plain text column
// holding the same literal form so stored vectors survive either way.
func (s *Store) ensureSchema(ctx context.Context) error {
	vectorType := "TEXT"
	if s.caps.VectorSearch {
		vectorType = "vector"
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS catalog_entries (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			unit        TEXT NOT NULL DEFAULT '',
			kind        TEXT NOT NULL DEFAULT '',
			tags        TEXT[] NOT NULL DEFAULT '{}',
			revision    INTEGER NOT NULL DEFAULT 1,
			vector      %s,
			metadata    JSONB NOT NULL DEFAULT '{}',
			inserted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, vectorType)

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	if s.caps.TextSearch {
		index := `CREATE INDEX IF NOT EXISTS catalog_entries_name_trgm_idx
		          ON catalog_entries USING GIN (name gin_trgm_ops)`
		if _, err := s.db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("ensure trigram index: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Capabilities reports the probe results from Open.
func (s *Store) Capabilities(ctx context.Context) (storage.Capabilities, error) {
	return s.caps, nil
}

const entryColumns = `id, name, unit, kind, tags, revision, vector::text, metadata, inserted_at, updated_at`

// AddEntries inserts catalog entries, assigning IDs from the table
// sequence for entries without one.
func (s *Store) AddEntries(ctx context.Context, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		metadata, err := marshalMetadata(entry.Metadata)
		if err != nil {
			return nil, err
		}
		revision := entry.Revision
		if revision == 0 {
			revision = 1
		}

		var row *sql.Row
		if entry.Id == 0 {
			query := `INSERT INTO catalog_entries (name, unit, kind, tags, revision, vector, metadata)
			          VALUES ($1, $2, $3, $4, $5, $6, $7)
			          RETURNING id, revision, inserted_at, updated_at`
			row = tx.QueryRowContext(ctx, query,
				entry.Name, entry.Unit, entry.Kind, pq.Array(entry.Tags), revision,
				vectorValue(entry.Vector), metadata)
		} else {
			query := `INSERT INTO catalog_entries (id, name, unit, kind, tags, revision, vector, metadata)
			          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			          RETURNING id, revision, inserted_at, updated_at`
			row = tx.QueryRowContext(ctx, query,
				int64(entry.Id), entry.Name, entry.Unit, entry.Kind, pq.Array(entry.Tags), revision,
				vectorValue(entry.Vector), metadata)
		}

		var id int64
		if err := row.Scan(&id, &entry.Revision, &entry.InsertedAt, &entry.UpdatedAt); err != nil {
			return nil, classifyError("add entry", err)
		}
		entry.Id = core.ID(id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return entries, nil
}

// UpdateEntries rewrites existing entries and bumps their revision.
func (s *Store) UpdateEntries(ctx context.Context, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE catalog_entries
	          SET name = $2, unit = $3, kind = $4, tags = $5, vector = $6, metadata = $7,
	              revision = revision + 1, updated_at = NOW()
	          WHERE id = $1
	          RETURNING revision, inserted_at, updated_at`

	for _, entry := range entries {
		metadata, err := marshalMetadata(entry.Metadata)
		if err != nil {
			return nil, err
		}

		err = tx.QueryRowContext(ctx, query,
			int64(entry.Id), entry.Name, entry.Unit, entry.Kind, pq.Array(entry.Tags),
			vectorValue(entry.Vector), metadata,
		).Scan(&entry.Revision, &entry.InsertedAt, &entry.UpdatedAt)
		if err != nil {
			return nil, classifyError("update entry", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return entries, nil
}

// DeleteEntries removes entries by ID.
func (s *Store) DeleteEntries(ctx context.Context, ids ...core.ID) error {
	for _, id := range ids {
		res, err := s.db.ExecContext(ctx, `DELETE FROM catalog_entries WHERE id = $1`, int64(id))
		if err != nil {
			return classifyError("delete entry", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return storage.ErrNotFound
		}
	}
	return nil
}

// GetEntry retrieves a single entry by ID.
func (s *Store) GetEntry(ctx context.Context, id core.ID) (*core.CatalogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM catalog_entries WHERE id = $1`
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		return nil, classifyError("get entry", err)
	}
	return entry, nil
}

// GetEntries retrieves multiple entries by ID; missing ones are skipped.
func (s *Store) GetEntries(ctx context.Context, ids ...core.ID) ([]*core.CatalogEntry, error) {
	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}

	query := `SELECT ` + entryColumns + ` FROM catalog_entries WHERE id = ANY($1) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, classifyError("get entries", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListEntries retrieves all entries ordered by ID.
func (s *Store) ListEntries(ctx context.Context) ([]*core.CatalogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM catalog_entries ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError("list entries", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// EntriesWithoutVector retrieves up to limit entries missing an
// embedding. A non-positive limit returns all of them; Postgres would
// read `LIMIT 0` as zero rows, so the clause is only added when bounded.
func (s *Store) EntriesWithoutVector(ctx context.Context, limit int) ([]*core.CatalogEntry, error) {
	query, args := entriesWithoutVectorQuery(limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError("entries without vector", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func entriesWithoutVectorQuery(limit int) (string, []any) {
	query := `SELECT ` + entryColumns + ` FROM catalog_entries WHERE vector IS NULL ORDER BY id`
	if limit > 0 {
		return query + ` LIMIT $1`, []any{limit}
	}
	return query, nil
}

// SetVector stores an embedding for an entry.
func (s *Store) SetVector(ctx context.Context, id core.ID, vector []float32) error {
	query := `UPDATE catalog_entries SET vector = $2, updated_at = NOW() WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, int64(id), vectorValue(vector))
	if err != nil {
		return classifyError("set vector", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SearchByName ranks entries by pg_trgm similarity to text.
func (s *Store) SearchByName(ctx context.Context, text string, minScore float32, limit int) ([]storage.TextMatch, error) {
	if !s.caps.TextSearch {
		return nil, storage.ErrTextSearchUnavailable
	}

	query := `SELECT id, name, similarity(name, $1) AS score
	          FROM catalog_entries
	          WHERE similarity(name, $1) > $2
	          ORDER BY score DESC, id ASC
	          LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, text, minScore, limit)
	if err != nil {
		return nil, classifyError("search by name", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// NearestNeighbors ranks entries by pgvector cosine similarity.
func (s *Store) NearestNeighbors(ctx context.Context, vector []float32, limit int) ([]storage.TextMatch, error) {
	if !s.caps.VectorSearch {
		return nil, storage.ErrVectorSearchUnavailable
	}

	query := `SELECT id, name, 1 - (vector <=> $1::vector) AS score
	          FROM catalog_entries
	          WHERE vector IS NOT NULL
	          ORDER BY vector <=> $1::vector, id ASC
	          LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, vectorToString(vector), limit)
	if err != nil {
		return nil, classifyError("nearest neighbors", err)
	}
	defer rows.Close()

	matches, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}
	// Cosine distance can exceed 1 for opposing vectors
	for i := range matches {
		if matches[i].Score < 0 {
			matches[i].Score = 0
		}
	}
	return matches, nil
}

// TagFrequencies aggregates entry tags with occurrence counts.
func (s *Store) TagFrequencies(ctx context.Context, minCount int) ([]storage.TagCount, error) {
	query := `SELECT tag, COUNT(*) AS count
	          FROM catalog_entries, unnest(tags) AS tag
	          GROUP BY tag
	          HAVING COUNT(*) >= $1
	          ORDER BY count DESC, tag ASC`

	rows, err := s.db.QueryContext(ctx, query, minCount)
	if err != nil {
		return nil, classifyError("tag frequencies", err)
	}
	defer rows.Close()

	var results []storage.TagCount
	for rows.Next() {
		var tc storage.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan tag count: %w", err)
		}
		results = append(results, tc)
	}
	return results, rows.Err()
}

// Helpers

func scanEntry(row *sql.Row) (*core.CatalogEntry, error) {
	var entry core.CatalogEntry
	var tags pq.StringArray
	var vectorText sql.NullString
	var metadata []byte
	var id int64

	err := row.Scan(&id, &entry.Name, &entry.Unit, &entry.Kind, &tags,
		&entry.Revision, &vectorText, &metadata, &entry.InsertedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return finishEntry(&entry, id, tags, vectorText, metadata)
}

func scanEntries(rows *sql.Rows) ([]*core.CatalogEntry, error) {
	var results []*core.CatalogEntry
	for rows.Next() {
		var entry core.CatalogEntry
		var tags pq.StringArray
		var vectorText sql.NullString
		var metadata []byte
		var id int64

		err := rows.Scan(&id, &entry.Name, &entry.Unit, &entry.Kind, &tags,
			&entry.Revision, &vectorText, &metadata, &entry.InsertedAt, &entry.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		finished, err := finishEntry(&entry, id, tags, vectorText, metadata)
		if err != nil {
			return nil, err
		}
		results = append(results, finished)
	}
	return results, rows.Err()
}

func finishEntry(entry *core.CatalogEntry, id int64, tags pq.StringArray, vectorText sql.NullString, metadata []byte) (*core.CatalogEntry, error) {
	entry.Id = core.ID(id)
	entry.Tags = tags

	if vectorText.Valid && vectorText.String != "" {
		vector, err := vectorFromString(vectorText.String)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
		}
		entry.Vector = vector
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
		}
	}

	return entry, nil
}

func scanMatches(rows *sql.Rows) ([]storage.TextMatch, error) {
	var results []storage.TextMatch
	for rows.Next() {
		var m storage.TextMatch
		var id int64
		if err := rows.Scan(&id, &m.Name, &m.Score); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.EntryId = core.ID(id)
		results = append(results, m)
	}
	return results, rows.Err()
}

func marshalMetadata(metadata map[string]string) ([]byte, error) {
	if len(metadata) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}
	return data, nil
}

// vectorValue converts a vector to its SQL parameter, NULL when absent.
func vectorValue(vector []float32) any {
	if len(vector) == 0 {
		return nil
	}
	return vectorToString(vector)
}

// classifyError maps driver errors onto the storage sentinel errors.
func classifyError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return storage.ErrDuplicateKey
	}
	return fmt.Errorf("%s: %w", op, err)
}
