// Package records keeps the client-side list of inspection records in step
// with the remote record store.
//
// Every mutation is followed by a reload of the list, and the reload finishes
// before the mutation returns. Failures are reported as *Failure values that
// carry a user-facing message.
package records

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/search"
)

// DefaultPageSize is the number of records Load fetches.
const DefaultPageSize = 10

// RecordStore is the remote record store.
type RecordStore interface {
	search.RecordSearcher
	ListRecords(ctx context.Context, page, perPage int, text string) (*core.Page, error)
	CreateRecord(ctx context.Context, req *core.NewRecordRequest) (*core.Record, error)
	UpdateRecord(ctx context.Context, id core.ID, patch *core.RecordPatch) (*core.Record, error)
	DeleteRecord(ctx context.Context, id core.ID) error
}

// AttachmentIndex is the local per-record attachment index.
type AttachmentIndex interface {
	Remove(ctx context.Context, recordID core.ID) error
}

// Manager owns the loaded record list and the search view over it.
type Manager struct {
	store        RecordStore
	orchestrator *search.Orchestrator
	attachments  AttachmentIndex
	monitor      search.SearchMonitor
	pageSize     int
	logger       *slog.Logger

	mu       sync.RWMutex
	records  []*core.Record
	inFlight int
	lastErr  error
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

// WithAttachmentIndex sets the local attachment index cleared on delete.
func WithAttachmentIndex(index AttachmentIndex) Option {
	return func(m *Manager) error {
		m.attachments = index
		return nil
	}
}

// WithPageSize sets how many records Load fetches.
// Default is DefaultPageSize.
func WithPageSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = DefaultPageSize
		}
		m.pageSize = size
		return nil
	}
}

// WithSearchMonitor observes the searches the manager runs.
func WithSearchMonitor(monitor search.SearchMonitor) Option {
	return func(m *Manager) error {
		m.monitor = monitor
		return nil
	}
}

// NewManager creates a manager over store. The list starts empty; call Load.
func NewManager(store RecordStore, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrRecordStoreRequired
	}

	m := &Manager{
		store:    store,
		pageSize: DefaultPageSize,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	orchestrator, err := search.NewOrchestrator(store,
		search.WithLogger(m.logger),
		search.WithMonitor(m.monitor),
	)
	if err != nil {
		return nil, err
	}
	m.orchestrator = orchestrator

	return m, nil
}

// Records returns the loaded records.
func (m *Manager) Records() []*core.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records
}

// Loading reports whether a remote call is in progress.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inFlight > 0
}

// Err returns the failure of the last operation, or nil if it succeeded.
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// begin marks an operation as started and returns the function that ends it.
func (m *Manager) begin() func() {
	m.mu.Lock()
	m.inFlight++
	m.lastErr = nil
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}
}

// fail records and returns a failure for the current operation.
func (m *Manager) fail(message string, err error) error {
	m.logger.Error(message, "err", err)
	failure := &Failure{Message: message, Err: err}
	m.mu.Lock()
	m.lastErr = failure
	m.mu.Unlock()
	return failure
}

// Load replaces the record list with the first page from the store.
func (m *Manager) Load(ctx context.Context) error {
	defer m.begin()()

	if err := m.reload(ctx); err != nil {
		return m.fail(MsgLoadFailed, err)
	}
	return nil
}

func (m *Manager) reload(ctx context.Context) error {
	page, err := m.store.ListRecords(ctx, 1, m.pageSize, "")
	if err != nil {
		return err
	}
	records := page.Records
	if records == nil {
		records = []*core.Record{}
	}

	m.mu.Lock()
	m.records = records
	m.mu.Unlock()
	return nil
}

// Add creates a record from draft and reloads the list.
func (m *Manager) Add(ctx context.Context, draft *core.Record) (*core.Record, error) {
	defer m.begin()()

	if draft == nil {
		return nil, m.fail(MsgSaveFailed, core.ErrInvalidRecord)
	}

	created, err := m.store.CreateRecord(ctx, core.NewRecordRequestFrom(draft))
	if err != nil {
		return nil, m.fail(MsgSaveFailed, err)
	}
	if err := m.reload(ctx); err != nil {
		return nil, m.fail(MsgSaveFailed, err)
	}
	return created, nil
}

// Update applies patch to a record and reloads the list.
func (m *Manager) Update(ctx context.Context, id core.ID, patch *core.RecordPatch) (*core.Record, error) {
	if id.IsZero() {
		return nil, ErrMissingID
	}
	defer m.begin()()

	updated, err := m.store.UpdateRecord(ctx, id, patch)
	if err != nil {
		return nil, m.fail(MsgUpdateFailed, err)
	}
	if err := m.reload(ctx); err != nil {
		return nil, m.fail(MsgUpdateFailed, err)
	}
	return updated, nil
}

// Delete removes a record's local attachment index, deletes the record
// remotely and reloads the list.
//
// The index is removed first and is not restored if the remote delete fails.
func (m *Manager) Delete(ctx context.Context, id core.ID) error {
	if id.IsZero() {
		return ErrMissingID
	}
	defer m.begin()()

	if m.attachments != nil {
		if err := m.attachments.Remove(ctx, id); err != nil {
			m.logger.Warn("error removing attachment index", "record", id, "err", err)
		}
	}

	if err := m.store.DeleteRecord(ctx, id); err != nil {
		return m.fail(MsgDeleteFailed, err)
	}
	m.orchestrator.Forget(id)

	if err := m.reload(ctx); err != nil {
		return m.fail(MsgDeleteFailed, err)
	}
	return nil
}

// Search runs a remote search. On failure the previous search results stay
// visible. A search submitted while another runs returns
// search.ErrSearchInProgress unchanged.
func (m *Manager) Search(ctx context.Context, criteria core.Criteria) ([]*core.Record, error) {
	defer m.begin()()

	records, err := m.orchestrator.Search(ctx, criteria)
	if err != nil {
		if errors.Is(err, search.ErrSearchInProgress) {
			return nil, err
		}
		return nil, m.fail(MsgSearchFailed, err)
	}
	return records, nil
}

// ResetSearch drops the search results so the full list is visible again.
func (m *Manager) ResetSearch() {
	m.orchestrator.Reset()
}

// SearchState returns the state of the search view.
func (m *Manager) SearchState() string {
	return m.orchestrator.State()
}

// Visible returns the records to display for criteria: the search results
// when a search has succeeded, otherwise the loaded list, filtered locally.
func (m *Manager) Visible(criteria core.Criteria, user *core.User, myRecords bool) []*core.Record {
	return m.orchestrator.Visible(m.Records(), criteria, user, myRecords)
}
