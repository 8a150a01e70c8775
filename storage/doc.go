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


// Package storage provides the storage abstraction layer for pharmainspect.
//
// This package defines repository interfaces that decouple storage implementation
// from the REST handlers and CLI. The BadgerDB implementation lives in the
// badger subpackage.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - RecordRepository: inspection records with date and creation indices
//   - AttachmentRepository: attachment metadata linked to records
//   - NotificationRepository: per-user notifications
//   - LocalStore: string key/value pairs for session state
//
// Values are stored in the mus binary format. Use the Marshal and Unmarshal helpers
// in this package rather than encoding values directly.
//
// Records are keyed by id. Secondary keys index them by inspection date,
// for date range searches, and by creation time, for newest-first listings.
// Serial numbers come from a BadgerDB sequence.
//
// Tests use in-memory storage:
//
//	repos, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer repos.Backend.Close()
//
// Repositories are safe for concurrent use. Every method takes a
// context.Context.
package storage
