package storage

import (
	"context"

	"github.com/poiesic/pharmainspect/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases repository resources.
	Close() error
}

// ListQuery selects one page of a record listing.
type ListQuery struct {
	// Page is 1-based. Values below 1 are treated as 1.
	Page int
	// PerPage is the page size. Values below 1 use DefaultPerPage.
	PerPage int
	// Search is free text matched against institution, location,
	// pharmacist, inspector names and serial number.
	Search string
}

// DefaultPerPage is the page size used when a query does not set one.
const DefaultPerPage = 10

// RecordRepository provides operations for managing inspection records.
type RecordRepository interface {
	Repository
	// AddRecords validates and stores new records.
	// Assigns ID, SerialNumber and CreatedAt/UpdatedAt.
	// Returns the records with generated fields populated.
	AddRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error)

	// UpdateRecord applies a partial update to an existing record.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateRecord(ctx context.Context, id core.ID, patch *core.RecordPatch) (*core.Record, error)

	// DeleteRecords removes records and their attachments.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, ids ...core.ID) error

	// GetRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.Record, error)

	// ListRecords returns one page of records, newest first.
	ListRecords(ctx context.Context, query ListQuery) (*core.Page, error)

	// GetRecordsByDateRange returns records whose inspection date lies in
	// [from, to], ordered by date. Blank bounds are open.
	GetRecordsByDateRange(ctx context.Context, from, to string) ([]*core.Record, error)

	// SearchRecords returns the records matching every set criterion,
	// ordered by inspection date.
	SearchRecords(ctx context.Context, criteria core.Criteria) ([]*core.Record, error)
}

// AttachmentRepository provides operations for managing attachment metadata.
type AttachmentRepository interface {
	Repository
	// AddAttachment stores attachment metadata, assigning ID and CreatedAt.
	AddAttachment(ctx context.Context, attachment *core.Attachment) (*core.Attachment, error)

	// GetAttachment retrieves one attachment by ID.
	// Returns ErrNotFound if it doesn't exist.
	GetAttachment(ctx context.Context, id core.ID) (*core.Attachment, error)

	// GetAttachmentsByRecord returns the attachments linked to a record.
	GetAttachmentsByRecord(ctx context.Context, recordID core.ID) ([]*core.Attachment, error)
}

// NotificationRepository provides operations for managing user notifications.
type NotificationRepository interface {
	Repository
	// AddNotifications stores notifications, assigning ID and timestamps.
	AddNotifications(ctx context.Context, notifications ...*core.Notification) ([]*core.Notification, error)

	// GetNotificationsByUser returns a user's notifications, newest first.
	GetNotificationsByUser(ctx context.Context, userID string) ([]*core.Notification, error)

	// MarkRead flags a notification as read.
	// Returns ErrNotFound if it doesn't exist.
	MarkRead(ctx context.Context, id core.ID) (*core.Notification, error)
}

// LocalStore is a small string key/value store for session state.
type LocalStore interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys starting with prefix, in sorted order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
