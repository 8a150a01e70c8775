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


package badger

import "github.com/poiesic/pharmainspect/storage"

// Repositories bundles every BadgerDB repository over one backend.
type Repositories struct {
	Backend       *Backend
	Records       storage.RecordRepository
	Attachments   storage.AttachmentRepository
	Notifications storage.NotificationRepository
	Local         storage.LocalStore
}

// NewRepositories creates every repository over backend.
func NewRepositories(backend *Backend) (*Repositories, error) {
	records, err := NewRecordRepository(backend)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Backend:       backend,
		Records:       records,
		Attachments:   NewAttachmentRepository(backend),
		Notifications: NewNotificationRepository(backend),
		Local:         NewLocalStore(backend),
	}, nil
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must close the backend when done.
func NewMemoryRepositories() (*Repositories, error) {
	backend, err := NewMemoryBackend()
	if err != nil {
		return nil, err
	}

	repos, err := NewRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return repos, nil
}
