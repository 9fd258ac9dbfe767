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


// Package queue provides the asynchronous embedding pipeline. Texts are
// enqueued as durable jobs, a bounded worker pool computes vectors
// through the AI provider with retries, and callers may wait for a
// result with a deadline. A wait that times out abandons the job rather
// than cancelling it: the vector still lands in storage and serves the
// next request.
package queue
