package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

// AttachmentRepository implements storage.AttachmentRepository for BadgerDB.
type AttachmentRepository struct {
	backend *Backend
}

var _ storage.AttachmentRepository = (*AttachmentRepository)(nil)

// NewAttachmentRepository creates a new AttachmentRepository.
func NewAttachmentRepository(backend *Backend) *AttachmentRepository {
	return &AttachmentRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns all resources.
func (r *AttachmentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *AttachmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAttachment stores attachment metadata and links it to its record.
// A record ID that does not exist fails with storage.ErrNotFound.
func (r *AttachmentRepository) AddAttachment(ctx context.Context, attachment *core.Attachment) (*core.Attachment, error) {
	if err := core.ValidateAttachment(attachment); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if attachment.ID.IsZero() {
			attachment.ID = core.NewID()
		}
		if attachment.CreatedAt.IsZero() {
			attachment.CreatedAt = time.Now()
		}
		attachment.CreatedAt = storedTime(attachment.CreatedAt)

		if !attachment.RecordID.IsZero() {
			record, err := readValue(tx, makeRecordKey(attachment.RecordID), storage.UnmarshalRecord)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}
			linkKey := makeAttachmentRecordKey(attachment.RecordID, attachment.ID)
			if err := tx.Set(linkKey, storage.MarshalID(attachment.ID)); err != nil {
				return err
			}
		}

		value, err := storage.MarshalAttachment(attachment)
		if err != nil {
			return err
		}
		if err := tx.Set(makeAttachmentKey(attachment.ID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return attachment, nil
}

// GetAttachment retrieves one attachment by ID.
func (r *AttachmentRepository) GetAttachment(ctx context.Context, id core.ID) (*core.Attachment, error) {
	var result *core.Attachment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readValue(tx, makeAttachmentKey(id), storage.UnmarshalAttachment)
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

// GetAttachmentsByRecord returns the attachments linked to a record.
func (r *AttachmentRepository) GetAttachmentsByRecord(ctx context.Context, recordID core.ID) ([]*core.Attachment, error) {
	var results []*core.Attachment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, makePartialAttachmentRecordKey(recordID), func(item *badger.Item) error {
			id, err := readIndexedID(item)
			if err != nil {
				return err
			}
			attachment, err := readValue(tx, makeAttachmentKey(id), storage.UnmarshalAttachment)
			if err != nil {
				return err
			}
			if attachment != nil {
				results = append(results, attachment)
			}
			return nil
		})
	}, false)
	return results, err
}

// deleteRecordAttachments removes every attachment linked to a record.
func deleteRecordAttachments(tx *badger.Txn, recordID core.ID) error {
	var linkKeys [][]byte
	var ids []core.ID
	err := scanPrefix(tx, makePartialAttachmentRecordKey(recordID), func(item *badger.Item) error {
		id, err := readIndexedID(item)
		if err != nil {
			return err
		}
		linkKeys = append(linkKeys, item.KeyCopy(nil))
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return err
	}

	for i, key := range linkKeys {
		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := tx.Delete(makeAttachmentKey(ids[i])); err != nil {
			return err
		}
	}
	return nil
}
