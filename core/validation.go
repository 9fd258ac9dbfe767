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

import (
	"fmt"
	"math"
	"strings"
)

// MinQueryLength is the minimum rune count for resolvable query text,
// measured after normalization.
const MinQueryLength = 2

// NormalizeText trims and case-folds query or entry text. All similarity
// scoring and cache fingerprinting operates on normalized text so that
// "Subfloor Replacement" and " subfloor replacement " resolve identically.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(CleanName(text)))
}

// CleanName replaces the unicode narrow no-break space (U+202F) that
// upstream language models occasionally emit with a standard hyphen.
func CleanName(name string) string {
	return strings.ReplaceAll(name, " ", "-")
}

// NormalizeTag lowercases and trims a tag. Returns "" for blank tags,
// which callers should skip.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// ValidateQueryText validates text submitted for resolution.
//
// Validation rules:
//   - normalized text must be at least MinQueryLength runes
func ValidateQueryText(text string) error {
	if len([]rune(NormalizeText(text))) < MinQueryLength {
		return fmt.Errorf("%w: %q", ErrInvalidInput, text)
	}
	return nil
}

// ValidateVector validates an embedding vector before similarity search.
//
// Validation rules:
//   - must be non-empty
//   - components must be finite (no NaN or Inf)
func ValidateVector(vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidVector)
	}
	for i, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite component at index %d", ErrInvalidVector, i)
		}
	}
	return nil
}

// ValidateCatalogEntry validates a CatalogEntry according to domain rules.
//
// Validation rules:
//   - Name must not be empty after cleanup
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding queue runs)
//   - ID (0 is valid from database sequences)
func ValidateCatalogEntry(entry *CatalogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}
	if strings.TrimSpace(CleanName(entry.Name)) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyName)
	}
	return nil
}

// ValidateEmbeddingJob validates an EmbeddingJob before it is enqueued.
func ValidateEmbeddingJob(job *EmbeddingJob) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}
	if err := ValidateQueryText(job.InputText); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return nil
}
