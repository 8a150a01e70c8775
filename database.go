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

package pharmainspect

import (
	"context"
	"log/slog"

	"github.com/poiesic/pharmainspect/api"
	"github.com/poiesic/pharmainspect/backup"
	"github.com/poiesic/pharmainspect/importer"
	"github.com/poiesic/pharmainspect/notify"
	"github.com/poiesic/pharmainspect/session"
	"github.com/poiesic/pharmainspect/storage"
	"github.com/poiesic/pharmainspect/storage/badger"
)

// Database owns one BadgerDB backend and the repositories built over it.
type Database struct {
	backend *badger.Backend
	repos   *badger.Repositories
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory keeps the database in memory. The path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens the database at filePath, creating it if needed.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repos, err := badger.NewRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend: backend,
		repos:   repos,
		logger:  options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.repos.Records.Close(); err != nil {
		db.logger.Error("error closing record repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) RecordRepository() storage.RecordRepository {
	return db.repos.Records
}

func (db *Database) AttachmentRepository() storage.AttachmentRepository {
	return db.repos.Attachments
}

func (db *Database) NotificationRepository() storage.NotificationRepository {
	return db.repos.Notifications
}

func (db *Database) LocalStore() storage.LocalStore {
	return db.repos.Local
}

func (db *Database) NewServer(opts ...api.Option) (*api.Server, error) {
	return api.NewServer(db.repos.Records, db.repos.Attachments, db.repos.Notifications, opts...)
}

func (db *Database) NewDispatcher(opts ...notify.Option) (*notify.Dispatcher, error) {
	return notify.NewDispatcher(db.repos.Notifications, opts...)
}

func (db *Database) NewBackupManager(dir string, opts ...backup.Option) (*backup.Manager, error) {
	return backup.NewManager(db.backend, dir, opts...)
}

func (db *Database) NewImporter(config *importer.Config, opts ...importer.Option) (*importer.Importer, error) {
	return importer.New(db.repos.Records, config, opts...)
}

// NewSessionStore loads the user list and logged-in user from local storage.
func (db *Database) NewSessionStore(ctx context.Context, opts ...session.Option) (*session.Store, error) {
	return session.NewStore(ctx, db.repos.Local, opts...)
}

func (db *Database) NewAttachmentIndex() (*session.AttachmentIndex, error) {
	return session.NewAttachmentIndex(db.repos.Local)
}
