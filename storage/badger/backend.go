package badger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/pharmainspect/storage"
)

const (
	defaultSequenceBandwidth = 100
	defaultMaxPendingWrites  = 256
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger

	seqMu     sync.Mutex
	sequences map[string]*badger.Sequence
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(filePath); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(filePath)
	}

	logger := slog.Default().With("component", "badger")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:        db,
		logger:    logger,
		sequences: make(map[string]*badger.Sequence),
	}, nil
}

// NewMemoryBackend opens an in-memory backend for tests and throwaway use.
func NewMemoryBackend() (*Backend, error) {
	return OpenBackend("", true)
}

func ensureDir(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(filePath, 0755); err != nil {
			return err
		}
		if info, err = os.Stat(filePath); err != nil {
			return err
		}
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filePath)
	}
	return nil
}

// Close releases open sequences and closes the BadgerDB database.
func (b *Backend) Close() error {
	if err := b.releaseSequences(); err != nil {
		b.logger.Warn("error releasing sequences", "err", err)
	}
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
// Returns storage.ErrStorageClosed once the backend has been closed.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// NextSequence returns the next number of the named sequence, starting at 1.
func (b *Backend) NextSequence(name string) (uint64, error) {
	b.seqMu.Lock()
	defer b.seqMu.Unlock()

	seq, ok := b.sequences[name]
	if !ok {
		var err error
		seq, err = b.db.GetSequence([]byte(name), defaultSequenceBandwidth)
		if err != nil {
			return 0, err
		}
		b.sequences[name] = seq
	}

	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		return seq.Next()
	}
	return next, nil
}

// releaseSequences returns unused leases so numbering resumes from the
// stored value.
func (b *Backend) releaseSequences() error {
	b.seqMu.Lock()
	defer b.seqMu.Unlock()

	var firstErr error
	for name, seq := range b.sequences {
		if err := seq.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(b.sequences, name)
	}
	return firstErr
}

// WithTransaction executes a function within a transaction.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Backup writes a full snapshot of the database to w.
// Returns the version the snapshot was taken at.
func (b *Backend) Backup(w io.Writer) (uint64, error) {
	if b.db.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	version, err := b.db.Backup(w, 0)
	if err != nil {
		return 0, fmt.Errorf("backing up database: %w", err)
	}
	b.logger.Info("database backed up", "version", version)
	return version, nil
}

// Restore replaces every key in the database with the snapshot read from r.
// Sequences continue from the values stored in the snapshot.
func (b *Backend) Restore(r io.Reader) error {
	if err := b.releaseSequences(); err != nil {
		return fmt.Errorf("releasing sequences: %w", err)
	}
	if err := b.db.DropAll(); err != nil {
		return fmt.Errorf("clearing database: %w", err)
	}
	if err := b.db.Load(r, defaultMaxPendingWrites); err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	b.logger.Info("database restored")
	return nil
}
