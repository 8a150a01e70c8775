package session

import (
	"context"
	"strings"

	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

// attachmentKeyPrefix prefixes the local key holding a record's attachments.
const attachmentKeyPrefix = "attachments_"

// AttachmentKey returns the local key for a record's attachment list.
func AttachmentKey(recordID core.ID) string {
	return attachmentKeyPrefix + recordID.String()
}

// AttachmentIndex lists the attachments kept locally for each record.
type AttachmentIndex struct {
	local storage.LocalStore
}

// NewAttachmentIndex creates an index over local.
func NewAttachmentIndex(local storage.LocalStore) (*AttachmentIndex, error) {
	if local == nil {
		return nil, ErrLocalStoreRequired
	}
	return &AttachmentIndex{local: local}, nil
}

// Get returns the attachments of a record. A record without an entry has
// none.
func (x *AttachmentIndex) Get(ctx context.Context, recordID core.ID) ([]*core.Attachment, error) {
	attachments := []*core.Attachment{}
	if err := readJSON(ctx, x.local, AttachmentKey(recordID), &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// Put replaces the attachments of a record.
func (x *AttachmentIndex) Put(ctx context.Context, recordID core.ID, attachments []*core.Attachment) error {
	if attachments == nil {
		attachments = []*core.Attachment{}
	}
	return writeJSON(ctx, x.local, AttachmentKey(recordID), attachments)
}

// Add appends one attachment to a record's list.
func (x *AttachmentIndex) Add(ctx context.Context, recordID core.ID, attachment *core.Attachment) error {
	if err := core.ValidateAttachment(attachment); err != nil {
		return err
	}
	attachments, err := x.Get(ctx, recordID)
	if err != nil {
		return err
	}
	return x.Put(ctx, recordID, append(attachments, attachment))
}

// Remove drops a record's entry. Removing a missing entry is not an error.
func (x *AttachmentIndex) Remove(ctx context.Context, recordID core.ID) error {
	return x.local.Delete(ctx, AttachmentKey(recordID))
}

// Has reports whether a record has at least one attachment.
func (x *AttachmentIndex) Has(ctx context.Context, recordID core.ID) (bool, error) {
	n, err := x.Count(ctx, recordID)
	return n > 0, err
}

// Count returns the number of attachments of a record.
func (x *AttachmentIndex) Count(ctx context.Context, recordID core.ID) (int, error) {
	attachments, err := x.Get(ctx, recordID)
	if err != nil {
		return 0, err
	}
	return len(attachments), nil
}

// RecordIDs lists the records that have an entry.
func (x *AttachmentIndex) RecordIDs(ctx context.Context) ([]core.ID, error) {
	keys, err := x.local.Keys(ctx, attachmentKeyPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]core.ID, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, core.ID(strings.TrimPrefix(key, attachmentKeyPrefix)))
	}
	return ids, nil
}
