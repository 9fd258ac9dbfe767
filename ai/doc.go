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


// Package ai provides abstractions for the embedding services used by the
// catalog resolution engine.
//
// The package defines the Embedder interface for text-to-vector generation
// and the Provider aggregate for lifecycle management. The matching engine
// and the embedding queue depend on these abstractions rather than on any
// concrete provider.
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles for unit testing without external
//     dependencies
//
// Provider failures are reported by wrapping ErrProvider so that callers on
// the semantic path can degrade to lexical-only matching with errors.Is.
package ai
