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


// Package match resolves free-text descriptions against the catalog.
//
// The Resolver combines two retrieval strategies with different failure
// modes: fuzzy lexical matching against entry names and semantic nearest-
// neighbor search over entry embeddings. Candidates are merged with
// max-score deduplication and a two-threshold policy decides between a
// confident match, candidates for human review, or creating a new entry.
//
// Infrastructure failures degrade rather than fail: a missing fuzzy
// operator switches to an in-process edit-distance scorer, a missing
// vector index or a slow embedding provider drops the semantic half, and
// cache errors only skip memoization. A resolution fails only on invalid
// input or a malformed vector.
package match
