package pharmainspect

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/pharmainspect/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.RecordRepository())
		assert.NotNil(t, db.AttachmentRepository())
		assert.NotNil(t, db.NotificationRepository())
		assert.NotNil(t, db.LocalStore())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("in memory", func(t *testing.T) {
		db, err := NewDatabase("", WithInMemory())
		require.NoError(t, err)
		defer db.Close()
		assert.NotNil(t, db.RecordRepository())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, db)

	assert.NoError(t, db.Close())
}

func TestDatabase_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := NewDatabase(dir)
	require.NoError(t, err)
	added, err := db.RecordRepository().AddRecords(ctx, &core.Record{
		BasicData: core.BasicData{Date: "2024-06-15", InstitutionName: "صيدلية النور"},
		CreatedBy: "admin",
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dir)
	require.NoError(t, err)
	defer db.Close()

	record, err := db.RecordRepository().GetRecord(ctx, added[0].ID)
	require.NoError(t, err)
	assert.Equal(t, added[0].SerialNumber, record.SerialNumber)
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	t.Run("can create server", func(t *testing.T) {
		server, err := db.NewServer()
		require.NoError(t, err)
		assert.NotNil(t, server.Handler())
	})

	t.Run("can create dispatcher", func(t *testing.T) {
		dispatcher, err := db.NewDispatcher()
		require.NoError(t, err)
		dispatcher.Release()
	})

	t.Run("can create backup manager", func(t *testing.T) {
		dir := t.TempDir()
		manager, err := db.NewBackupManager(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, manager.Dir())
	})

	t.Run("can create importer", func(t *testing.T) {
		imp, err := db.NewImporter(nil)
		require.NoError(t, err)

		result, err := imp.Run(ctx, strings.NewReader(`[{"date":"2024-01-01","institution_name":"x"}]`))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
	})

	t.Run("can create session store", func(t *testing.T) {
		store, err := db.NewSessionStore(ctx)
		require.NoError(t, err)
		assert.Len(t, store.Users(), 1)
	})

	t.Run("can create attachment index", func(t *testing.T) {
		index, err := db.NewAttachmentIndex()
		require.NoError(t, err)
		assert.NotNil(t, index)
	})
}
