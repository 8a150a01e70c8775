package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/search"
	"github.com/poiesic/pharmainspect/storage"
)

// serialFormat renders a serial number from the creation year and a
// sequence number.
const serialFormat = "INS-%d-%04d"

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) (*RecordRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("record repository: backend is nil")
	}
	return &RecordRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns all resources.
func (r *RecordRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *RecordRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRecords validates and stores new records.
//
// Blank IDs are generated. A record keeps a non-blank SerialNumber or
// CreatedAt it arrives with, which lets imports preserve them. Adding an ID
// that already exists fails with storage.ErrDuplicateKey.
func (r *RecordRepository) AddRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error) {
	for _, record := range records {
		if err := core.ValidateRecord(record); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := storedTime(time.Now())
		for _, record := range records {
			if record.ID.IsZero() {
				record.ID = core.NewID()
			}
			key := makeRecordKey(record.ID)

			existing, err := readValue(tx, key, storage.UnmarshalRecord)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: record %s", storage.ErrDuplicateKey, record.ID)
			}

			if record.CreatedAt.IsZero() {
				record.CreatedAt = now
			} else {
				record.CreatedAt = storedTime(record.CreatedAt)
			}
			record.UpdatedAt = now

			if strings.TrimSpace(record.SerialNumber) == "" {
				seq, err := r.backend.NextSequence(recordSerialSeq)
				if err != nil {
					return err
				}
				record.SerialNumber = fmt.Sprintf(serialFormat, record.CreatedAt.Year(), seq)
			}

			if err := r.writeRecord(tx, record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// UpdateRecord applies patch to an existing record.
func (r *RecordRepository) UpdateRecord(ctx context.Context, id core.ID, patch *core.RecordPatch) (*core.Record, error) {
	var updated *core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readValue(tx, makeRecordKey(id), storage.UnmarshalRecord)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		record := *old
		patch.Apply(&record)
		if err := core.ValidateRecord(&record); err != nil {
			return err
		}
		record.UpdatedAt = storedTime(time.Now())

		// Update date index if the inspection date changed
		if old.BasicData.Date != record.BasicData.Date {
			if err := tx.Delete(makeRecordDateKey(old.BasicData.Date, old.ID)); err != nil {
				return err
			}
		}
		if err := r.writeRecord(tx, &record); err != nil {
			return err
		}

		updated = &record
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRecords removes records by their IDs, with their indices and
// attachments.
func (r *RecordRepository) DeleteRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(id)

			record, err := readValue(tx, key, storage.UnmarshalRecord)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%w: record %s", storage.ErrNotFound, id)
			}

			if err := tx.Delete(makeRecordDateKey(record.BasicData.Date, record.ID)); err != nil {
				return err
			}
			if err := tx.Delete(makeRecordCreatedKey(record.CreatedAt, record.ID)); err != nil {
				return err
			}
			if err := deleteRecordAttachments(tx, record.ID); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves a single record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.Record, error) {
	var result *core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readValue(tx, makeRecordKey(id), storage.UnmarshalRecord)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListRecords returns one page of records, newest first.
func (r *RecordRepository) ListRecords(ctx context.Context, query storage.ListQuery) (*core.Page, error) {
	page, perPage := query.Page, query.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = storage.DefaultPerPage
	}
	text := strings.ToLower(strings.TrimSpace(query.Search))

	var matched []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefixReverse(tx, []byte(recordCreatedPrefix), func(item *badger.Item) error {
			id, err := readIndexedID(item)
			if err != nil {
				return err
			}
			record, err := readValue(tx, makeRecordKey(id), storage.UnmarshalRecord)
			if err != nil {
				return err
			}
			if record != nil && matchesListText(record, text) {
				matched = append(matched, record)
			}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	total := len(matched)
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}

	// Pages past the end are empty. Checking against pages first keeps
	// (page-1)*perPage from overflowing.
	start := total
	if page <= pages {
		start = (page - 1) * perPage
	}
	end := start + min(perPage, total-start)

	return &core.Page{
		Records: append([]*core.Record{}, matched[start:end]...),
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	}, nil
}

// GetRecordsByDateRange returns records inspected within [from, to].
// A range whose start is after its end holds no records.
func (r *RecordRepository) GetRecordsByDateRange(ctx context.Context, from, to string) ([]*core.Record, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from != "" && to != "" && from > to {
		return []*core.Record{}, nil
	}

	var results []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(recordDatePrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makePartialRecordDateKey(from)); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix)+dateLen {
				continue
			}
			date := string(key[len(prefix) : len(prefix)+dateLen])
			if to != "" && date > to {
				break
			}

			id, err := readIndexedID(iter.Item())
			if err != nil {
				return err
			}
			record, err := readValue(tx, makeRecordKey(id), storage.UnmarshalRecord)
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// SearchRecords narrows by the date index, then applies the remaining
// criteria with the record filter.
func (r *RecordRepository) SearchRecords(ctx context.Context, criteria core.Criteria) ([]*core.Record, error) {
	records, err := r.GetRecordsByDateRange(ctx, criteria.DateFrom, criteria.DateTo)
	if err != nil {
		return nil, err
	}
	filtered := search.Filter(records, criteria, nil, false)
	if filtered == nil {
		filtered = []*core.Record{}
	}
	return filtered, nil
}

// Helper methods

// writeRecord stores the record and refreshes its indices.
func (r *RecordRepository) writeRecord(tx *badger.Txn, record *core.Record) error {
	value, err := storage.MarshalRecord(record)
	if err != nil {
		return err
	}
	if err := tx.Set(makeRecordKey(record.ID), value); err != nil {
		return err
	}
	if err := tx.Set(makeRecordDateKey(record.BasicData.Date, record.ID), storage.MarshalID(record.ID)); err != nil {
		return err
	}
	return tx.Set(makeRecordCreatedKey(record.CreatedAt, record.ID), storage.MarshalID(record.ID))
}

// matchesListText reports whether lowered text appears in one of the listed
// fields. Blank text matches everything.
func matchesListText(record *core.Record, text string) bool {
	if text == "" {
		return true
	}
	bd := record.BasicData
	fields := []string{
		bd.InstitutionName,
		bd.InspectionLocation,
		bd.PresentPharmacist,
		bd.InspectorName.String(),
		record.SerialNumber,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), text) {
			return true
		}
	}
	return false
}
