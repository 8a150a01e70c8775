// Package backup creates, lists and restores compressed database snapshots.
//
// A backup is a BadgerDB backup stream compressed with zstd and written to
// a file named pharmacy_backup_YYYYMMDD_HHMMSS.db.zst in the backup
// directory. Restoring first takes a safety backup of the current state.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// File naming.
const (
	FilePrefix       = "pharmacy_backup_"
	SafetyFilePrefix = "pharmacy_safety_"
	FileSuffix       = ".db.zst"
	TimestampLayout  = "20060102_150405"
)

// DownloadPath is the REST path prefix a backup can be downloaded from.
const DownloadPath = "/api/backup/download/"

var (
	// ErrSnapshotterRequired is returned when no database is provided.
	ErrSnapshotterRequired = errors.New("snapshotter required")

	// ErrDirRequired is returned when no backup directory is provided.
	ErrDirRequired = errors.New("backup directory required")

	// ErrInvalidFilename is returned for names that are not backup files.
	ErrInvalidFilename = errors.New("invalid backup filename")

	// ErrBackupNotFound is returned when a backup file does not exist.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrBackupExists is returned when a backup with the same name exists.
	ErrBackupExists = errors.New("backup already exists")
)

// Snapshotter streams the full database out and back in.
type Snapshotter interface {
	Backup(w io.Writer) (uint64, error)
	Restore(r io.Reader) error
}

// Info describes one backup file.
type Info struct {
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	Created     time.Time `json:"created"`
	DownloadURL string    `json:"download_url"`
}

// RestoreResult reports a completed restore.
type RestoreResult struct {
	Restored     string `json:"restored"`
	SafetyBackup string `json:"current_backup"`
}

// Manager owns the backup directory.
type Manager struct {
	db     Snapshotter
	dir    string
	level  zstd.EncoderLevel
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithCompressionLevel sets the zstd level, 1 (fastest) to 22.
func WithCompressionLevel(level int) Option {
	return func(m *Manager) error {
		m.level = zstd.EncoderLevelFromZstd(level)
		return nil
	}
}

// WithClock replaces the time source used to name backups.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) error {
		if now != nil {
			m.now = now
		}
		return nil
	}
}

// NewManager creates a manager writing backups of db into dir.
func NewManager(db Snapshotter, dir string, opts ...Option) (*Manager, error) {
	if db == nil {
		return nil, ErrSnapshotterRequired
	}
	if strings.TrimSpace(dir) == "" {
		return nil, ErrDirRequired
	}

	m := &Manager{
		db:     db,
		dir:    dir,
		level:  zstd.SpeedDefault,
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a new backup of the current database.
func (m *Manager) Create(ctx context.Context) (*Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(ctx, FilePrefix)
}

func (m *Manager) create(ctx context.Context, prefix string) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	filename := prefix + m.now().Format(TimestampLayout) + FileSuffix
	path := filepath.Join(m.dir, filename)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, filename)
	}

	tmp, err := os.CreateTemp(m.dir, ".backup-*")
	if err != nil {
		return nil, fmt.Errorf("creating backup file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := m.writeSnapshot(tmp); err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing backup file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("renaming backup file: %w", err)
	}

	info, err := m.stat(filename)
	if err != nil {
		return nil, err
	}
	m.logger.Info("backup created", "file", filename, "size", info.Size)
	return info, nil
}

func (m *Manager) writeSnapshot(f *os.File) error {
	compressor, err := zstd.NewWriter(f, zstd.WithEncoderLevel(m.level))
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := m.db.Backup(compressor); err != nil {
		_ = compressor.Close()
		return fmt.Errorf("writing backup stream: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("flushing compressor: %w", err)
	}
	return f.Sync()
}

// List returns the backups in the directory, newest first. A missing
// directory has no backups.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Info{}, nil
		}
		return nil, err
	}

	backups := []Info{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, FileSuffix) {
			continue
		}
		info, err := m.stat(name)
		if err != nil {
			return nil, err
		}
		backups = append(backups, *info)
	}

	slices.SortFunc(backups, func(a, b Info) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return strings.Compare(b.Filename, a.Filename)
	})
	return backups, nil
}

// Open opens a backup for reading. The caller closes the file.
func (m *Manager) Open(filename string) (*os.File, *Info, error) {
	if err := validateFilename(filename); err != nil {
		return nil, nil, err
	}
	info, err := m.stat(filename)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(m.dir, filename))
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

// Restore replaces the database contents with a backup. A safety backup of
// the current state is written first; if that fails nothing is restored.
func (m *Manager) Restore(ctx context.Context, filename string) (*RestoreResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateFilename(filename); err != nil {
		return nil, err
	}
	if _, err := m.stat(filename); err != nil {
		return nil, err
	}

	safety, err := m.create(ctx, SafetyFilePrefix)
	if err != nil {
		return nil, fmt.Errorf("creating safety backup: %w", err)
	}

	f, err := os.Open(filepath.Join(m.dir, filename))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Reject files that are not zstd streams before the database is dropped.
	if err := checkMagic(f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFilename, filename, err)
	}

	decompressor, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer decompressor.Close()

	if err := m.db.Restore(decompressor); err != nil {
		return nil, fmt.Errorf("restoring %s: %w", filename, err)
	}

	m.logger.Info("backup restored", "file", filename, "safety_backup", safety.Filename)
	return &RestoreResult{Restored: filename, SafetyBackup: safety.Filename}, nil
}

func (m *Manager) stat(filename string) (*Info, error) {
	st, err := os.Stat(filepath.Join(m.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, filename)
		}
		return nil, err
	}
	return &Info{
		Filename:    filename,
		Size:        st.Size(),
		Created:     st.ModTime(),
		DownloadURL: DownloadPath + filename,
	}, nil
}

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func checkMagic(f *os.File) error {
	header := make([]byte, len(zstdMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header, zstdMagic) {
		return errors.New("not a zstd stream")
	}
	_, err := f.Seek(0, io.SeekStart)
	return err
}

// validateFilename accepts bare backup or safety backup file names only.
func validateFilename(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	if !strings.HasSuffix(filename, FileSuffix) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	if !strings.HasPrefix(filename, FilePrefix) && !strings.HasPrefix(filename, SafetyFilePrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return nil
}
