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


// Package storage defines the repository interfaces for the catalog store
// and the embedding job queue, together with the serialization helpers
// shared by key/value backends.
//
// Two implementations exist:
//
//   - storage/badger: embedded BadgerDB backend. Similarity queries are
//     computed in-process over a full scan, so both capabilities are
//     always available.
//   - storage/postgres: PostgreSQL backend using the pg_trgm and pgvector
//     extensions. Capabilities are probed once at startup; when an
//     extension is missing the repository reports the corresponding
//     Err*Unavailable sentinel and the engine degrades accordingly.
//
// Serialization uses mus-format serializers generated by cmd/musgen
// (go generate ./core).
package storage
