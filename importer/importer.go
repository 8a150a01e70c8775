// Package importer loads inspection records in bulk from a JSON document.
//
// The document is either an array of records or an object with a "records"
// array, as returned by GET /api/records. Each entry may use the stored
// record shape (basicData, inspectionResults, ...) or the creation body
// shape (institution_name, inspector_name, ...). Entries that fail
// validation or whose id already exists are skipped and counted.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

var (
	// ErrRecordRepositoryRequired is returned when a record repository is not provided.
	ErrRecordRepositoryRequired = errors.New("record repository required")

	// ErrInvalidDocument is returned when the input is not a record list.
	ErrInvalidDocument = errors.New("invalid import document")
)

// Config holds configuration for an import.
type Config struct {
	// BatchSize is the number of records stored per transaction
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
	}
}

// RecordCallback is invoked for every stored record.
type RecordCallback func(record *core.Record)

// Result summarizes an import.
type Result struct {
	Imported int
	Skipped  int
}

// Importer stores decoded records through a record repository.
type Importer struct {
	records  storage.RecordRepository
	config   *Config
	progress io.Writer
	onStored RecordCallback
	logger   *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
	}
}

// WithProgress sets where progress is written. Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(i *Importer) {
		if w == nil {
			w = io.Discard
		}
		i.progress = w
	}
}

// WithRecordCallback sets a function called for every stored record.
func WithRecordCallback(fn RecordCallback) Option {
	return func(i *Importer) {
		i.onStored = fn
	}
}

// New creates an importer. A nil config uses DefaultConfig.
func New(records storage.RecordRepository, config *Config, opts ...Option) (*Importer, error) {
	if records == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}

	i := &Importer{
		records:  records,
		config:   config,
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Run decodes r and stores every valid record.
func (i *Importer) Run(ctx context.Context, r io.Reader) (*Result, error) {
	entries, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var valid []*core.Record
	for idx, raw := range entries {
		record, err := decodeRecord(raw)
		if err == nil {
			err = core.ValidateRecord(record)
		}
		if err != nil {
			i.logger.Warn("skipping record", "index", idx, "err", err)
			result.Skipped++
			continue
		}
		valid = append(valid, record)
	}

	total := len(entries)
	if total == 0 {
		fmt.Fprintf(i.progress, "No records found in document (0 records)\n")
		return result, nil
	}

	fmt.Fprintf(i.progress, "Importing %d records (batch size: %d)\n", total, i.config.BatchSize)
	tracker := NewProgressTracker(i.progress, total, i.config.ReportInterval)
	tracker.Start()
	tracker.Advance(0, result.Skipped)

	for start := 0; start < len(valid); start += i.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		batch := valid[start:min(start+i.config.BatchSize, len(valid))]

		stored, skipped, err := i.storeBatch(ctx, batch)
		if err != nil {
			return result, fmt.Errorf("failed to store batch: %w", err)
		}
		result.Imported += stored
		result.Skipped += skipped
		tracker.Advance(stored, skipped)
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(i.progress, "Import complete. Imported %d, skipped %d in %v\n",
		result.Imported, result.Skipped, elapsed.Round(time.Millisecond))

	i.logger.Info("import complete", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// storeBatch stores a batch in one transaction. When the batch collides with
// an existing id, records are stored one by one and collisions are skipped.
func (i *Importer) storeBatch(ctx context.Context, batch []*core.Record) (int, int, error) {
	added, err := i.records.AddRecords(ctx, batch...)
	if err == nil {
		i.stored(added)
		return len(added), 0, nil
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		return 0, 0, err
	}

	stored, skipped := 0, 0
	for _, record := range batch {
		added, err := i.records.AddRecords(ctx, record)
		if errors.Is(err, storage.ErrDuplicateKey) {
			i.logger.Warn("skipping existing record", "id", record.ID)
			skipped++
			continue
		}
		if err != nil {
			return stored, skipped, err
		}
		i.stored(added)
		stored++
	}
	return stored, skipped, nil
}

func (i *Importer) stored(records []*core.Record) {
	if i.onStored == nil {
		return
	}
	for _, r := range records {
		i.onStored(r)
	}
}

func decodeDocument(r io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	var entries []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	case '{':
		var wrapped struct {
			Records []json.RawMessage `json:"records"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		entries = wrapped.Records
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrInvalidDocument)
	}
	return entries, nil
}

// decodeRecord accepts either the stored record shape or the creation body.
func decodeRecord(raw json.RawMessage) (*core.Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	if _, ok := fields["basicData"]; ok {
		var record core.Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, err
		}
		if record.InspectionResults == nil {
			record.InspectionResults = core.InspectionResults{}
		}
		if record.CreatedBy == "" {
			record.CreatedBy = core.DefaultCreatedBy
		}
		return &record, nil
	}

	var req core.NewRecordRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return req.Record(), nil
}
