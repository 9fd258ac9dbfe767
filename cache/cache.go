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


package cache

import "time"

// Store is a key/value cache with per-entry time-to-live. Caching is
// advisory everywhere it is used: implementations swallow and log their
// own failures, so Get simply misses and Set is best-effort.
type Store[V any] interface {
	// Get returns the cached value for key, or false when the key is
	// absent or its TTL has expired.
	Get(key string) (V, bool)

	// Set stores value under key for the given TTL.
	Set(key string, value V, ttl time.Duration)
}
