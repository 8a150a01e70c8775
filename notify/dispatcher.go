// Package notify stores user notifications asynchronously.
//
// The Dispatcher hands notification writes to a worker pool so request
// handlers return without waiting on them. Errors during async processing are
// logged and do not fail the operation that triggered the notification.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

// Notification titles and types.
const (
	TitleRecordCreated = "سجل تفتيش جديد"
	TypeInfo           = "info"
)

// ErrNotificationRepositoryRequired is returned when a notification
// repository is not provided.
var ErrNotificationRepositoryRequired = errors.New("notification repository required")

// Dispatcher writes notifications on a worker pool.
type Dispatcher struct {
	notifications storage.NotificationRepository
	pool          *ants.Pool
	logger        *slog.Logger
	pending       sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(d *Dispatcher) error {
		if size < 1 {
			size = 1
		}
		if d.pool != nil {
			d.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		d.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDispatcher creates a dispatcher writing to notifications.
func NewDispatcher(notifications storage.NotificationRepository, opts ...Option) (*Dispatcher, error) {
	if notifications == nil {
		return nil, ErrNotificationRepositoryRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		notifications: notifications,
		pool:          pool,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(d); optErr != nil {
			d.Release()
			return nil, optErr
		}
	}

	return d, nil
}

// RecordCreated queues a notification to the record's creator.
func (d *Dispatcher) RecordCreated(record *core.Record) error {
	if record == nil {
		return nil
	}
	return d.Notify(&core.Notification{
		Title:    TitleRecordCreated,
		Message:  fmt.Sprintf("تم إنشاء سجل التفتيش %s - %s", record.SerialNumber, record.BasicData.InstitutionName),
		Type:     TypeInfo,
		UserID:   record.CreatedBy,
		RecordID: record.ID,
	})
}

// Notify queues notifications for storage. Invalid notifications are
// rejected before anything is queued.
func (d *Dispatcher) Notify(notifications ...*core.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, n := range notifications {
		if err := core.ValidateNotification(n); err != nil {
			return err
		}
	}

	d.pending.Add(1)
	err := d.pool.Submit(func() {
		defer d.pending.Done()
		if _, err := d.notifications.AddNotifications(context.Background(), notifications...); err != nil {
			d.logger.Error("error storing notifications", "count", len(notifications), "err", err)
			return
		}
		d.logger.Debug("notifications stored", "count", len(notifications))
	})
	if err != nil {
		d.pending.Done()
		return fmt.Errorf("queueing notifications: %w", err)
	}
	return nil
}

// Wait blocks until every queued notification has been processed.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// Release waits for queued work and releases the worker pool.
// The dispatcher should not be used after calling Release.
func (d *Dispatcher) Release() {
	d.pending.Wait()
	if d.pool != nil {
		d.pool.Release()
	}
}
