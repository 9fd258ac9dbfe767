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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntry indicates a CatalogEntry failed validation.
	ErrInvalidEntry = errors.New("invalid catalog entry")

	// ErrEmptyName indicates the entry Name field is empty.
	ErrEmptyName = errors.New("entry name cannot be empty")

	// ErrInvalidInput indicates query text is empty or too short to resolve.
	// This is a caller error and propagates as a hard failure.
	ErrInvalidInput = errors.New("input text too short")

	// ErrInvalidVector indicates an empty or malformed embedding vector.
	// This is a caller error and propagates as a hard failure.
	ErrInvalidVector = errors.New("invalid embedding vector")

	// ErrInvalidJob indicates an EmbeddingJob failed validation.
	ErrInvalidJob = errors.New("invalid embedding job")
)
