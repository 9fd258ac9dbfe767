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


package match

import "errors"

var (
	// ErrCatalogRepositoryRequired is returned when a catalog repository is not provided.
	ErrCatalogRepositoryRequired = errors.New("catalog repository required")

	// ErrLexicalMatcherRequired is returned when a lexical matcher is not provided.
	ErrLexicalMatcherRequired = errors.New("lexical matcher required")

	// ErrSemanticMatcherRequired is returned when a semantic matcher is not provided.
	ErrSemanticMatcherRequired = errors.New("semantic matcher required")

	// ErrResolverRequired is returned when a resolver is not provided.
	ErrResolverRequired = errors.New("resolver required")

	// ErrInvalidThresholds is returned when thresholds violate 0 <= soft <= hard <= 1.
	ErrInvalidThresholds = errors.New("invalid thresholds")
)
