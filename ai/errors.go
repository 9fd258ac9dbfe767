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


package ai

import "errors"

var (
	// ErrProvider indicates the upstream embedding provider failed.
	// Callers on the semantic matching path degrade to lexical-only
	// results when they observe this error.
	ErrProvider = errors.New("embedding provider failure")

	// ErrEmptyResult indicates the provider returned no embedding for
	// a non-empty input.
	ErrEmptyResult = errors.New("embedding provider returned empty result")
)
