package badger

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(date, institution string) *core.Record {
	return &core.Record{
		BasicData: core.BasicData{
			Date:            date,
			InstitutionName: institution,
			InspectorName:   core.NamesOf("أحمد"),
			WorkPlace:       core.NamesOf("الرقابة"),
		},
		InspectionResults: core.InspectionResults{},
		CreatedBy:         "admin",
	}
}

func storageQuery(page, perPage int, text string) storage.ListQuery {
	return storage.ListQuery{Page: page, PerPage: perPage, Search: text}
}

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Backend.Close() })
	return repos
}

func TestRecordBasics(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	added, err := repos.Records.AddRecords(ctx, newTestRecord("2024-06-15", "صيدلية النور"))
	require.NoError(t, err)
	require.Len(t, added, 1)

	record := added[0]
	assert.False(t, record.ID.IsZero())
	assert.Equal(t, fmt.Sprintf("INS-%d-0001", record.CreatedAt.Year()), record.SerialNumber)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, record.CreatedAt, record.UpdatedAt)

	retrieved, err := repos.Records.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "صيدلية النور", retrieved.BasicData.InstitutionName)
	assert.Equal(t, core.NamesOf("أحمد"), retrieved.BasicData.InspectorName)

	second, err := repos.Records.AddRecords(ctx, newTestRecord("2024-06-16", "second"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INS-%d-0002", second[0].CreatedAt.Year()), second[0].SerialNumber)
}

func TestAddRecords_Validation(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	_, err := repos.Records.AddRecords(ctx, newTestRecord("not-a-date", "x"))
	assert.ErrorIs(t, err, core.ErrInvalidRecord)

	_, err = repos.Records.AddRecords(ctx, newTestRecord("2024-01-01", " "))
	assert.ErrorIs(t, err, core.ErrEmptyInstitutionName)

	page, err := repos.Records.ListRecords(ctx, storageQuery(1, 10, ""))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestAddRecords_PreservesImportedFields(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	created := time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	record := newTestRecord("2023-03-01", "imported")
	record.ID = "legacy-1"
	record.SerialNumber = "OLD-7"
	record.CreatedAt = created

	_, err := repos.Records.AddRecords(ctx, record)
	require.NoError(t, err)

	got, err := repos.Records.GetRecord(ctx, "legacy-1")
	require.NoError(t, err)
	assert.Equal(t, "OLD-7", got.SerialNumber)
	assert.True(t, created.Equal(got.CreatedAt))

	dup := newTestRecord("2023-03-01", "dup")
	dup.ID = "legacy-1"
	_, err = repos.Records.AddRecords(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestUpdateRecord(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	added, err := repos.Records.AddRecords(ctx, newTestRecord("2024-06-15", "before"))
	require.NoError(t, err)
	id := added[0].ID

	bd := added[0].BasicData
	bd.InstitutionName = "after"
	bd.Date = "2024-08-01"
	rec := "تحسين التخزين"
	updated, err := repos.Records.UpdateRecord(ctx, id, &core.RecordPatch{
		BasicData:       &bd,
		Recommendations: &rec,
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.BasicData.InstitutionName)
	assert.Equal(t, rec, updated.Recommendations)
	assert.Equal(t, added[0].SerialNumber, updated.SerialNumber)
	assert.False(t, updated.UpdatedAt.Before(added[0].UpdatedAt))

	t.Run("date index follows the new date", func(t *testing.T) {
		old, err := repos.Records.GetRecordsByDateRange(ctx, "2024-06-01", "2024-06-30")
		require.NoError(t, err)
		assert.Empty(t, old)

		moved, err := repos.Records.GetRecordsByDateRange(ctx, "2024-08-01", "2024-08-01")
		require.NoError(t, err)
		require.Len(t, moved, 1)
		assert.Equal(t, id, moved[0].ID)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := repos.Records.UpdateRecord(ctx, "missing", &core.RecordPatch{Recommendations: &rec})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("invalid patch is rejected", func(t *testing.T) {
		bad := bd
		bad.Date = "01/08/2024"
		_, err := repos.Records.UpdateRecord(ctx, id, &core.RecordPatch{BasicData: &bad})
		assert.ErrorIs(t, err, core.ErrInvalidDate)

		got, err := repos.Records.GetRecord(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "2024-08-01", got.BasicData.Date)
	})
}

func TestDeleteRecords(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	added, err := repos.Records.AddRecords(ctx,
		newTestRecord("2024-06-15", "one"),
		newTestRecord("2024-06-16", "two"),
	)
	require.NoError(t, err)

	attachment, err := repos.Attachments.AddAttachment(ctx, &core.Attachment{
		Name:     "report.pdf",
		FilePath: "/uploads/report.pdf",
		Size:     12,
		RecordID: added[0].ID,
	})
	require.NoError(t, err)

	require.NoError(t, repos.Records.DeleteRecords(ctx, added[0].ID))

	_, err = repos.Records.GetRecord(ctx, added[0].ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repos.Attachments.GetAttachment(ctx, attachment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	byDate, err := repos.Records.GetRecordsByDateRange(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, added[1].ID, byDate[0].ID)

	t.Run("absent id is not found", func(t *testing.T) {
		err := repos.Records.DeleteRecords(ctx, added[0].ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListRecords(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		record := newTestRecord("2024-06-15", fmt.Sprintf("Pharmacy %d", i))
		record.CreatedAt = time.Date(2024, 6, i, 0, 0, 0, 0, time.UTC)
		if i == 3 {
			record.BasicData.InspectionLocation = "Jeddah"
		}
		_, err := repos.Records.AddRecords(ctx, record)
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		query     storage.ListQuery
		wantNames []string
		wantTotal int
		wantPages int
		wantPage  int
	}{
		{
			name:      "first page newest first",
			query:     storageQuery(1, 2, ""),
			wantNames: []string{"Pharmacy 5", "Pharmacy 4"},
			wantTotal: 5,
			wantPages: 3,
			wantPage:  1,
		},
		{
			name:      "last partial page",
			query:     storageQuery(3, 2, ""),
			wantNames: []string{"Pharmacy 1"},
			wantTotal: 5,
			wantPages: 3,
			wantPage:  3,
		},
		{
			name:      "page past the end is empty",
			query:     storageQuery(9, 2, ""),
			wantNames: []string{},
			wantTotal: 5,
			wantPages: 3,
			wantPage:  9,
		},
		{
			name:      "huge page number is empty",
			query:     storageQuery(math.MaxInt, 2, ""),
			wantNames: []string{},
			wantTotal: 5,
			wantPages: 3,
			wantPage:  math.MaxInt,
		},
		{
			name:      "huge page size holds everything",
			query:     storageQuery(1, math.MaxInt, ""),
			wantNames: []string{"Pharmacy 5", "Pharmacy 4", "Pharmacy 3", "Pharmacy 2", "Pharmacy 1"},
			wantTotal: 5,
			wantPages: 1,
			wantPage:  1,
		},
		{
			name:      "huge page and page size",
			query:     storageQuery(math.MaxInt, math.MaxInt, ""),
			wantNames: []string{},
			wantTotal: 5,
			wantPages: 1,
			wantPage:  math.MaxInt,
		},
		{
			name:      "no matches",
			query:     storageQuery(math.MaxInt, 2, "nowhere"),
			wantNames: []string{},
			wantTotal: 0,
			wantPages: 0,
			wantPage:  math.MaxInt,
		},
		{
			name:      "defaults",
			query:     storageQuery(0, 0, ""),
			wantNames: []string{"Pharmacy 5", "Pharmacy 4", "Pharmacy 3", "Pharmacy 2", "Pharmacy 1"},
			wantTotal: 5,
			wantPages: 1,
			wantPage:  1,
		},
		{
			name:      "free text search",
			query:     storageQuery(1, 10, "jeddah"),
			wantNames: []string{"Pharmacy 3"},
			wantTotal: 1,
			wantPages: 1,
			wantPage:  1,
		},
		{
			name:      "search by serial number",
			query:     storageQuery(1, 10, "INS-"),
			wantNames: []string{"Pharmacy 5", "Pharmacy 4", "Pharmacy 3", "Pharmacy 2", "Pharmacy 1"},
			wantTotal: 5,
			wantPages: 1,
			wantPage:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repos.Records.ListRecords(ctx, tt.query)
			require.NoError(t, err)

			names := []string{}
			for _, r := range page.Records {
				names = append(names, r.BasicData.InstitutionName)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPages, page.Pages)
			assert.Equal(t, tt.wantPage, page.Page)
		})
	}
}

func TestSearchRecords(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	inRange := newTestRecord("2024-06-15", "صيدلية النور")
	inRange.InspectionResults = core.InspectionResults{"storage": {"درجة الحرارة غير مسجلة"}}
	outOfRange := newTestRecord("2025-01-01", "صيدلية النور")
	other := newTestRecord("2024-03-01", "Al Shifa")
	other.BasicData.WorkPlace = core.NamesOf("North Region")

	_, err := repos.Records.AddRecords(ctx, inRange, outOfRange, other)
	require.NoError(t, err)

	tests := []struct {
		name     string
		criteria core.Criteria
		want     []string
	}{
		{
			name:     "date range",
			criteria: core.Criteria{DateFrom: "2024-01-01", DateTo: "2024-12-31"},
			want:     []string{"2024-03-01", "2024-06-15"},
		},
		{
			name:     "institution within range",
			criteria: core.Criteria{InstitutionName: "النور", DateTo: "2024-12-31"},
			want:     []string{"2024-06-15"},
		},
		{
			name:     "violation text",
			criteria: core.Criteria{ViolationText: "الحرارة"},
			want:     []string{"2024-06-15"},
		},
		{
			name:     "work entities",
			criteria: core.Criteria{WorkPlace: "north"},
			want:     []string{"2024-03-01"},
		},
		{
			name:     "no criteria returns everything by date",
			criteria: core.Criteria{},
			want:     []string{"2024-03-01", "2024-06-15", "2025-01-01"},
		},
		{
			name:     "no match",
			criteria: core.Criteria{InstitutionName: "missing"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repos.Records.SearchRecords(ctx, tt.criteria)
			require.NoError(t, err)
			dates := []string{}
			for _, r := range records {
				dates = append(dates, r.BasicData.Date)
			}
			assert.Equal(t, tt.want, dates)
		})
	}

	t.Run("inverted range matches nothing", func(t *testing.T) {
		records, err := repos.Records.SearchRecords(ctx, core.Criteria{DateFrom: "2025-01-01", DateTo: "2024-01-01"})
		require.NoError(t, err)
		assert.Empty(t, records)

		records, err = repos.Records.GetRecordsByDateRange(ctx, "2025-01-01", "2024-01-01")
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}
