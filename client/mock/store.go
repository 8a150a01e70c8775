package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/poiesic/pharmainspect/client"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/search"
)

// MockRecordStore is an in-memory test double for the REST record store.
// It allows custom behavior injection via function fields.
type MockRecordStore struct {
	ListRecordsFunc   func(ctx context.Context, page, perPage int, text string) (*core.Page, error)
	CreateRecordFunc  func(ctx context.Context, req *core.NewRecordRequest) (*core.Record, error)
	UpdateRecordFunc  func(ctx context.Context, id core.ID, patch *core.RecordPatch) (*core.Record, error)
	DeleteRecordFunc  func(ctx context.Context, id core.ID) error
	SearchRecordsFunc func(ctx context.Context, params map[string]string) ([]*core.Record, error)

	mu      sync.Mutex
	records map[core.ID]*core.Record
	serial  int
	calls   map[string]int
}

var _ search.RecordSearcher = (*MockRecordStore)(nil)

// NewMockRecordStore creates an empty mock store seeded with records.
func NewMockRecordStore(records ...*core.Record) *MockRecordStore {
	m := &MockRecordStore{
		records: make(map[core.ID]*core.Record),
		calls:   make(map[string]int),
	}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

// CallCount returns how many times the named method was called.
func (m *MockRecordStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Has reports whether a record is stored.
func (m *MockRecordStore) Has(id core.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[id]
	return ok
}

func (m *MockRecordStore) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

// ListRecords returns every stored record, newest first, as one page.
func (m *MockRecordStore) ListRecords(ctx context.Context, page, perPage int, text string) (*core.Page, error) {
	m.record("ListRecords")
	if m.ListRecordsFunc != nil {
		return m.ListRecordsFunc(ctx, page, perPage, text)
	}

	records := m.snapshot()
	return &core.Page{
		Records: records,
		Total:   len(records),
		Page:    1,
		PerPage: len(records),
		Pages:   1,
	}, nil
}

// CreateRecord stores the record described by req.
func (m *MockRecordStore) CreateRecord(ctx context.Context, req *core.NewRecordRequest) (*core.Record, error) {
	m.record("CreateRecord")
	if m.CreateRecordFunc != nil {
		return m.CreateRecordFunc(ctx, req)
	}

	record := req.Record()
	if err := core.ValidateRecord(record); err != nil {
		return nil, fmt.Errorf("%w: %w", client.ErrRequestFailed, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.serial++
	record.ID = core.NewID()
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	record.SerialNumber = fmt.Sprintf("INS-%d-%04d", record.CreatedAt.Year(), m.serial)
	m.records[record.ID] = record
	return record, nil
}

// UpdateRecord applies patch to a stored record.
func (m *MockRecordStore) UpdateRecord(ctx context.Context, id core.ID, patch *core.RecordPatch) (*core.Record, error) {
	m.record("UpdateRecord")
	if m.UpdateRecordFunc != nil {
		return m.UpdateRecordFunc(ctx, id, patch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %w", client.ErrRequestFailed, client.ErrNotFound)
	}
	updated := *existing
	patch.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()
	m.records[id] = &updated
	return &updated, nil
}

// DeleteRecord removes a stored record. Missing ids fail with ErrNotFound.
func (m *MockRecordStore) DeleteRecord(ctx context.Context, id core.ID) error {
	m.record("DeleteRecord")
	if m.DeleteRecordFunc != nil {
		return m.DeleteRecordFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: %w", client.ErrRequestFailed, client.ErrNotFound)
	}
	delete(m.records, id)
	return nil
}

// SearchRecords filters stored records by the wire params.
func (m *MockRecordStore) SearchRecords(ctx context.Context, params map[string]string) ([]*core.Record, error) {
	m.record("SearchRecords")
	if m.SearchRecordsFunc != nil {
		return m.SearchRecordsFunc(ctx, params)
	}

	filtered := search.Filter(m.snapshot(), search.CriteriaFromWire(params), nil, false)
	return append([]*core.Record{}, filtered...), nil
}

func (m *MockRecordStore) snapshot() []*core.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]*core.Record, 0, len(m.records))
	for _, r := range m.records {
		records = append(records, r)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}
