package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

// DefaultNotificationType is assigned to notifications stored without a type.
const DefaultNotificationType = "info"

// NotificationRepository implements storage.NotificationRepository for BadgerDB.
type NotificationRepository struct {
	backend *Backend
}

var _ storage.NotificationRepository = (*NotificationRepository)(nil)

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(backend *Backend) *NotificationRepository {
	return &NotificationRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns all resources.
func (r *NotificationRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *NotificationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddNotifications stores notifications and indexes them by user.
func (r *NotificationRepository) AddNotifications(ctx context.Context, notifications ...*core.Notification) ([]*core.Notification, error) {
	for _, n := range notifications {
		if err := core.ValidateNotification(n); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := storedTime(time.Now())
		for _, n := range notifications {
			if n.ID.IsZero() {
				n.ID = core.NewID()
			}
			if n.Type == "" {
				n.Type = DefaultNotificationType
			}
			if n.CreatedAt.IsZero() {
				n.CreatedAt = now
			} else {
				n.CreatedAt = storedTime(n.CreatedAt)
			}
			n.UpdatedAt = now

			if err := writeNotification(tx, n); err != nil {
				return err
			}
			userKey := makeNotificationUserKey(n.UserID, n.CreatedAt, n.ID)
			if err := tx.Set(userKey, storage.MarshalID(n.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetNotificationsByUser returns a user's notifications, newest first.
func (r *NotificationRepository) GetNotificationsByUser(ctx context.Context, userID string) ([]*core.Notification, error) {
	results := []*core.Notification{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefixReverse(tx, makePartialNotificationUserKey(userID), func(item *badger.Item) error {
			id, err := readIndexedID(item)
			if err != nil {
				return err
			}
			n, err := readValue(tx, makeNotificationKey(id), storage.UnmarshalNotification)
			if err != nil {
				return err
			}
			if n != nil {
				results = append(results, n)
			}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id core.ID) (*core.Notification, error) {
	var result *core.Notification
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		n, err := readValue(tx, makeNotificationKey(id), storage.UnmarshalNotification)
		if err != nil {
			return err
		}
		if n == nil {
			return storage.ErrNotFound
		}
		n.IsRead = true
		n.UpdatedAt = storedTime(time.Now())
		if err := writeNotification(tx, n); err != nil {
			return err
		}
		result = n
		return tx.Commit()
	}, true)
	return result, err
}

func writeNotification(tx *badger.Txn, n *core.Notification) error {
	value, err := storage.MarshalNotification(n)
	if err != nil {
		return err
	}
	return tx.Set(makeNotificationKey(n.ID), value)
}
