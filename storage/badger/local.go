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

import (
	"context"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pharmainspect/storage"
)

// LocalStore implements storage.LocalStore for BadgerDB.
type LocalStore struct {
	backend *Backend
}

var _ storage.LocalStore = (*LocalStore)(nil)

// NewLocalStore creates a new LocalStore.
func NewLocalStore(backend *Backend) *LocalStore {
	return &LocalStore{
		backend: backend,
	}
}

// Get retrieves the value stored under key.
// Returns "", false, nil if no value exists.
func (s *LocalStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeLocalKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			value = string(val)
			found = true
			return nil
		})
	}, false)

	return value, found, err
}

// Set persists value under key.
func (s *LocalStore) Set(ctx context.Context, key, value string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeLocalKey(key), []byte(value)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes key.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeLocalKey(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Keys lists the stored keys starting with prefix.
func (s *LocalStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, makeLocalKey(prefix), func(item *badger.Item) error {
			keys = append(keys, strings.TrimPrefix(string(item.Key()), localPrefix))
			return nil
		})
	}, false)
	return keys, err
}
