// Copyright 2025 Poiesic Systems
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


// Package search matches and filters inspection records.
//
// Matching happens in three layers:
//   - Matchers decide whether one record field satisfies one criterion
//   - Filter combines every active criterion with AND semantics
//   - Orchestrator runs remote searches and caches the server results
//
// Inspector and workplace fields may hold one name or several. A single
// inspector value is the combined string form and is split on '-' and '/'.
// A list already holds one name per element. Comparisons use simple
// lower-casing only, so Arabic text is compared exactly as stored.
package search
