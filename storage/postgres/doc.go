// Package postgres provides the PostgreSQL catalog store, using pg_trgm
// for fuzzy text search and pgvector for embedding search when installed.
package postgres
