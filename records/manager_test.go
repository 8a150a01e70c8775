package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/pharmainspect/client/mock"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ RecordStore = (*mock.MockRecordStore)(nil)

type fakeIndex struct {
	removed []core.ID
	err     error
	onCall  func()
}

func (f *fakeIndex) Remove(ctx context.Context, recordID core.ID) error {
	f.removed = append(f.removed, recordID)
	if f.onCall != nil {
		f.onCall()
	}
	return f.err
}

func stored(id, date, institution, inspector string, age time.Duration) *core.Record {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Add(-age)
	return &core.Record{
		ID:           core.ID(id),
		SerialNumber: "INS-2024-" + id,
		BasicData: core.BasicData{
			Date:            date,
			InstitutionName: institution,
			InspectorName:   core.NamesOf(inspector),
			WorkPlace:       core.NamesOf("الرقابة"),
		},
		InspectionResults: core.InspectionResults{},
		CreatedAt:         created,
		CreatedBy:         "admin",
		UpdatedAt:         created,
	}
}

func seededStore() *mock.MockRecordStore {
	return mock.NewMockRecordStore(
		stored("r1", "2024-05-01", "صيدلية النور", "أحمد", 0),
		stored("r2", "2024-05-10", "صيدلية الشفاء", "سارة", time.Hour),
		stored("r3", "2024-05-20", "مستشفى الأمل", "أحمد-سارة", 2*time.Hour),
	)
}

func newTestManager(t *testing.T, store RecordStore, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(store, opts...)
	require.NoError(t, err)
	return m
}

func recordIDs(records []*core.Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID.String())
	}
	return ids
}

func TestNewManager(t *testing.T) {
	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrRecordStoreRequired)

	m := newTestManager(t, seededStore())
	assert.Empty(t, m.Records())
	assert.False(t, m.Loading())
	assert.NoError(t, m.Err())
	assert.Equal(t, search.StateIdle, m.SearchState())
}

func TestLoad(t *testing.T) {
	store := seededStore()
	var gotPage, gotPerPage int
	var loadingDuringCall bool
	var m *Manager
	store.ListRecordsFunc = func(ctx context.Context, page, perPage int, text string) (*core.Page, error) {
		gotPage, gotPerPage = page, perPage
		loadingDuringCall = m.Loading()
		return &core.Page{Records: []*core.Record{stored("r1", "2024-05-01", "x", "y", 0)}, Total: 1}, nil
	}
	m = newTestManager(t, store, WithPageSize(25))

	require.NoError(t, m.Load(context.Background()))

	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 25, gotPerPage)
	assert.True(t, loadingDuringCall)
	assert.False(t, m.Loading())
	assert.Equal(t, []string{"r1"}, recordIDs(m.Records()))
}

func TestLoad_DefaultPageSize(t *testing.T) {
	store := seededStore()
	var gotPerPage int
	store.ListRecordsFunc = func(ctx context.Context, page, perPage int, text string) (*core.Page, error) {
		gotPerPage = perPage
		return &core.Page{}, nil
	}
	m := newTestManager(t, store)

	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, DefaultPageSize, gotPerPage)
	assert.NotNil(t, m.Records())
	assert.Empty(t, m.Records())
}

func TestLoad_Failure(t *testing.T) {
	store := seededStore()
	m := newTestManager(t, store)
	require.NoError(t, m.Load(context.Background()))

	cause := errors.New("connection refused")
	store.ListRecordsFunc = func(ctx context.Context, page, perPage int, text string) (*core.Page, error) {
		return nil, cause
	}

	err := m.Load(context.Background())
	require.Error(t, err)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, MsgLoadFailed, failure.Message)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, err, m.Err())
	assert.False(t, m.Loading())
	assert.Len(t, m.Records(), 3)
}

func TestAdd(t *testing.T) {
	store := seededStore()
	m := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	draft := &core.Record{
		BasicData: core.BasicData{
			Date:            "2024-06-01",
			InstitutionName: "صيدلية جديدة",
			InspectorName:   core.NamesOf("أحمد", "سارة"),
		},
	}

	created, err := m.Add(ctx, draft)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.SerialNumber)
	assert.Equal(t, core.DefaultCreatedBy, created.CreatedBy)
	assert.Equal(t, core.NamesOf("أحمد, سارة"), created.BasicData.InspectorName)

	assert.Equal(t, 1, store.CallCount("CreateRecord"))
	assert.Equal(t, 2, store.CallCount("ListRecords"))
	assert.Len(t, m.Records(), 4)
	assert.False(t, m.Loading())
	assert.NoError(t, m.Err())
}

func TestAdd_Failure(t *testing.T) {
	store := seededStore()
	store.CreateRecordFunc = func(ctx context.Context, req *core.NewRecordRequest) (*core.Record, error) {
		return nil, errors.New("server error")
	}
	m := newTestManager(t, store)

	_, err := m.Add(context.Background(), stored("", "2024-06-01", "x", "y", 0))

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, MsgSaveFailed, failure.Message)
	assert.Zero(t, store.CallCount("ListRecords"))
	assert.False(t, m.Loading())
}

func TestUpdate(t *testing.T) {
	store := seededStore()
	m := newTestManager(t, store)
	ctx := context.Background()

	recommendations := "إغلاق مؤقت"
	updated, err := m.Update(ctx, "r2", &core.RecordPatch{Recommendations: &recommendations})
	require.NoError(t, err)
	assert.Equal(t, recommendations, updated.Recommendations)
	assert.Equal(t, 1, store.CallCount("ListRecords"))

	_, err = m.Update(ctx, "missing", &core.RecordPatch{Recommendations: &recommendations})
	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, MsgUpdateFailed, failure.Message)
}

func TestMissingID_NoRemoteCall(t *testing.T) {
	store := seededStore()
	index := &fakeIndex{}
	m := newTestManager(t, store, WithAttachmentIndex(index))
	ctx := context.Background()

	_, err := m.Update(ctx, " ", &core.RecordPatch{})
	assert.ErrorIs(t, err, ErrMissingID)

	err = m.Delete(ctx, "")
	assert.ErrorIs(t, err, ErrMissingID)

	assert.Zero(t, store.CallCount("UpdateRecord"))
	assert.Zero(t, store.CallCount("DeleteRecord"))
	assert.Empty(t, index.removed)
	assert.NoError(t, m.Err())
}

func TestDelete(t *testing.T) {
	store := seededStore()
	var deletedBeforeIndex bool
	index := &fakeIndex{}
	index.onCall = func() {
		deletedBeforeIndex = store.CallCount("DeleteRecord") > 0
	}
	m := newTestManager(t, store, WithAttachmentIndex(index))
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	require.NoError(t, m.Delete(ctx, "r2"))

	assert.False(t, deletedBeforeIndex)
	assert.Equal(t, []core.ID{"r2"}, index.removed)
	assert.False(t, store.Has("r2"))
	assert.Equal(t, []string{"r1", "r3"}, recordIDs(m.Records()))
}

func TestDelete_RemoteFailureKeepsIndexRemoved(t *testing.T) {
	store := seededStore()
	store.DeleteRecordFunc = func(ctx context.Context, id core.ID) error {
		return errors.New("server error")
	}
	index := &fakeIndex{}
	m := newTestManager(t, store, WithAttachmentIndex(index))

	err := m.Delete(context.Background(), "r1")

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, MsgDeleteFailed, failure.Message)
	assert.Equal(t, []core.ID{"r1"}, index.removed)
	assert.True(t, store.Has("r1"))
}

func TestDelete_IndexErrorDoesNotStopDelete(t *testing.T) {
	store := seededStore()
	index := &fakeIndex{err: errors.New("disk full")}
	m := newTestManager(t, store, WithAttachmentIndex(index))

	require.NoError(t, m.Delete(context.Background(), "r1"))
	assert.False(t, store.Has("r1"))
}

func TestSearchAndVisible(t *testing.T) {
	store := seededStore()
	m := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	// Before any search the loaded list is the base.
	visible := m.Visible(core.Criteria{InspectorName: "سارة"}, nil, false)
	assert.Equal(t, []string{"r2", "r3"}, recordIDs(visible))

	results, err := m.Search(ctx, core.Criteria{InstitutionName: "صيدلية"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, recordIDs(results))
	assert.Equal(t, search.StateShowing, m.SearchState())

	visible = m.Visible(core.Criteria{InspectorName: "سارة"}, nil, false)
	assert.Equal(t, []string{"r2"}, recordIDs(visible))

	require.NoError(t, m.Delete(ctx, "r2"))
	visible = m.Visible(core.Criteria{}, nil, false)
	assert.Equal(t, []string{"r1"}, recordIDs(visible))

	m.ResetSearch()
	assert.Equal(t, search.StateIdle, m.SearchState())
	visible = m.Visible(core.Criteria{}, nil, false)
	assert.Equal(t, []string{"r1", "r3"}, recordIDs(visible))
}

func TestSearch_FailureKeepsPreviousResults(t *testing.T) {
	store := seededStore()
	m := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	_, err := m.Search(ctx, core.Criteria{InstitutionName: "مستشفى"})
	require.NoError(t, err)

	store.SearchRecordsFunc = func(ctx context.Context, params map[string]string) ([]*core.Record, error) {
		return nil, errors.New("timeout")
	}
	_, err = m.Search(ctx, core.Criteria{InstitutionName: "صيدلية"})

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, MsgSearchFailed, failure.Message)
	assert.ErrorIs(t, err, search.ErrSearchFailed)
	assert.False(t, m.Loading())

	visible := m.Visible(core.Criteria{}, nil, false)
	assert.Equal(t, []string{"r3"}, recordIDs(visible))
}

func TestSearch_InProgressPassesThrough(t *testing.T) {
	store := seededStore()
	release := make(chan struct{})
	started := make(chan struct{})
	store.SearchRecordsFunc = func(ctx context.Context, params map[string]string) ([]*core.Record, error) {
		close(started)
		<-release
		return []*core.Record{}, nil
	}
	m := newTestManager(t, store)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := m.Search(ctx, core.Criteria{InstitutionName: "a"})
		done <- err
	}()
	<-started

	_, err := m.Search(ctx, core.Criteria{InstitutionName: "b"})
	assert.ErrorIs(t, err, search.ErrSearchInProgress)
	var failure *Failure
	assert.False(t, errors.As(err, &failure))

	close(release)
	require.NoError(t, <-done)
	assert.False(t, m.Loading())
}

func TestVisible_MyRecords(t *testing.T) {
	store := seededStore()
	m := newTestManager(t, store)
	require.NoError(t, m.Load(context.Background()))

	user := &core.User{Username: "ahmad", Name: "أحمد"}
	visible := m.Visible(core.Criteria{}, user, true)
	assert.Equal(t, []string{"r1", "r3"}, recordIDs(visible))

	assert.Empty(t, m.Visible(core.Criteria{}, nil, true))
}
