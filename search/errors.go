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


package search

import "errors"

var (
	// ErrRecordSearcherRequired is returned when a record searcher is not provided.
	ErrRecordSearcherRequired = errors.New("record searcher required")

	// ErrSearchFailed is returned when the remote search call fails.
	// Previously cached results are left untouched.
	ErrSearchFailed = errors.New("search failed")

	// ErrSearchInProgress is returned when a search is submitted while
	// another one is still running.
	ErrSearchInProgress = errors.New("search already in progress")
)
