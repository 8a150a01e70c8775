package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/pharmainspect"
	"github.com/poiesic/pharmainspect/backup"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// run executes the app with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"pharmainspect", "--log-level", "error"}, args...))
	return out.String(), err
}

func findCommand(t *testing.T, app *cli.App, path ...string) *cli.Command {
	t.Helper()
	commands := app.Commands
	var found *cli.Command
	for _, name := range path {
		found = nil
		for _, cmd := range commands {
			if cmd.Name == name {
				found = cmd
				break
			}
		}
		require.NotNil(t, found, "command %v", path)
		commands = found.Subcommands
	}
	return found
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"WARN", false},
		{"error", false},
		{"verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := run(t, "--log-level", tt.level, "users", "list", "--session", t.TempDir())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("serve requires db", func(t *testing.T) {
		_, err := run(t, "serve")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("serve listens on 5000 by default", func(t *testing.T) {
		cmd := findCommand(t, app, "serve")
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "addr" {
				assert.Equal(t, ":5000", f.Value)
				return
			}
		}
		t.Fatal("addr flag not found")
	})

	t.Run("server flag reads environment", func(t *testing.T) {
		cmd := findCommand(t, app, "records", "list")
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "server" {
				assert.Equal(t, []string{"PHARMAINSPECT_SERVER"}, f.EnvVars)
				assert.Equal(t, "http://localhost:5000/api", f.Value)
				return
			}
		}
		t.Fatal("server flag not found")
	})

	t.Run("import requires a file", func(t *testing.T) {
		_, err := run(t, "import", "--db", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "import file is required")
	})

	t.Run("import rejects zero batch size", func(t *testing.T) {
		_, err := run(t, "import", "--db", t.TempDir(), "--batch-size", "0", "records.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size")
	})
}

func TestSessionCommands(t *testing.T) {
	sessionDir := filepath.Join(t.TempDir(), "session")

	_, err := run(t, "whoami", "--session", sessionDir)
	assert.ErrorIs(t, err, errNotLoggedIn)

	_, err = run(t, "login", "--session", sessionDir, "-u", "admin", "-p", "wrong")
	require.Error(t, err)

	out, err := run(t, "login", "--session", sessionDir, "-u", "admin", "-p", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as المدير")

	out, err = run(t, "whoami", "--session", sessionDir)
	require.NoError(t, err)
	assert.Contains(t, out, "admin")

	out, err = run(t, "users", "add", "--session", sessionDir,
		"--username", "sara", "--password", "secret", "--name", "سارة", "--workplace", "الرقابة")
	require.NoError(t, err)
	assert.Contains(t, out, "Added user")
	id := strings.TrimSpace(strings.TrimPrefix(out, "Added user"))

	_, err = run(t, "users", "add", "--session", sessionDir,
		"--username", "sara", "--password", "x")
	require.Error(t, err)

	_, err = run(t, "users", "add", "--session", sessionDir,
		"--username", "omar", "--password", "x", "--role", "auditor")
	require.Error(t, err)

	out, err = run(t, "users", "list", "--session", sessionDir)
	require.NoError(t, err)
	assert.Contains(t, out, "sara")
	assert.Contains(t, out, "الرقابة")

	_, err = run(t, "users", "delete", "--session", sessionDir, id)
	require.NoError(t, err)
	out, err = run(t, "users", "list", "--session", sessionDir)
	require.NoError(t, err)
	assert.NotContains(t, out, "sara")

	_, err = run(t, "logout", "--session", sessionDir)
	require.NoError(t, err)
	_, err = run(t, "whoami", "--session", sessionDir)
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestImportAndBackupCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db")
	backupDir := filepath.Join(dir, "backups")

	doc := []map[string]any{
		{"date": "2024-06-01", "institution_name": "صيدلية النور", "inspector_name": "أحمد"},
		{"date": "2024-06-02", "institution_name": "صيدلية الشفاء"},
		{"date": "bad", "institution_name": "x"},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	importFile := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(importFile, data, 0644))

	out, err := run(t, "import", "--db", dbPath, importFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 records, skipped 1")

	out, err = run(t, "backup", "create", "--db", dbPath, "--dir", backupDir)
	require.NoError(t, err)
	assert.Contains(t, out, backup.FilePrefix)

	out, err = run(t, "backup", "list", "--db", dbPath, "--dir", backupDir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	filename := strings.Fields(lines[0])[0]

	// Import more, then restore and check the extra record is gone.
	_, err = run(t, "import", "--db", dbPath, importFile)
	require.NoError(t, err)

	out, err = run(t, "backup", "restore", "--db", dbPath, "--dir", backupDir, filename)
	require.NoError(t, err)
	assert.Contains(t, out, backup.SafetyFilePrefix)

	db, err := pharmainspect.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
	page, err := db.RecordRepository().ListRecords(context.Background(), storage.ListQuery{Page: 1, PerPage: 100})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	_, err = run(t, "backup", "restore", "--db", filepath.Join(dir, "other"), "--dir", backupDir, "../escape.db.zst")
	assert.ErrorIs(t, err, backup.ErrInvalidFilename)
}

func TestRecordCommands(t *testing.T) {
	db, err := pharmainspect.NewDatabase("", pharmainspect.WithInMemory())
	require.NoError(t, err)
	defer db.Close()

	server, err := db.NewServer()
	require.NoError(t, err)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	ctx := context.Background()
	added, err := db.RecordRepository().AddRecords(ctx,
		&core.Record{
			BasicData: core.BasicData{Date: "2024-05-01", InstitutionName: "صيدلية النور", InspectorName: core.NamesOf("أحمد")},
			CreatedBy: "admin",
		},
		&core.Record{
			BasicData: core.BasicData{Date: "2024-05-20", InstitutionName: "صيدلية الشفاء", InspectorName: core.NamesOf("سارة")},
			CreatedBy: "admin",
		},
		&core.Record{
			BasicData: core.BasicData{Date: "2024-06-10", InstitutionName: "مستشفى الأمل", InspectorName: core.NamesOf("سارة", "أحمد")},
			CreatedBy: "admin",
		},
	)
	require.NoError(t, err)

	sessionDir := filepath.Join(t.TempDir(), "session")

	t.Run("list", func(t *testing.T) {
		out, err := run(t, "records", "list", "--server", ts.URL, "--per-page", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Page 1 of 2 (3 records)")
	})

	t.Run("get", func(t *testing.T) {
		out, err := run(t, "records", "get", "--server", ts.URL, added[0].ID.String())
		require.NoError(t, err)
		assert.Contains(t, out, added[0].SerialNumber)

		_, err = run(t, "records", "get", "--server", ts.URL)
		require.Error(t, err)
	})

	t.Run("search remote criteria", func(t *testing.T) {
		out, err := run(t, "search", "--server", ts.URL, "--institution", "صيدلية")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 records")
	})

	t.Run("search local criteria", func(t *testing.T) {
		out, err := run(t, "search", "--server", ts.URL, "--inspector", "سارة", "--from", "2024-05-10")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 records")
	})

	t.Run("search mine requires login", func(t *testing.T) {
		_, err := run(t, "search", "--server", ts.URL, "--session", sessionDir, "--mine")
		assert.ErrorIs(t, err, errNotLoggedIn)
	})

	t.Run("search mine", func(t *testing.T) {
		_, err := run(t, "users", "add", "--session", sessionDir,
			"--username", "sara", "--password", "secret", "--name", "سارة")
		require.NoError(t, err)
		_, err = run(t, "login", "--session", sessionDir, "-u", "sara", "-p", "secret")
		require.NoError(t, err)

		out, err := run(t, "search", "--server", ts.URL, "--session", sessionDir, "--mine")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 records")
		assert.NotContains(t, out, "صيدلية النور")
	})

	t.Run("delete", func(t *testing.T) {
		out, err := run(t, "records", "delete", "--server", ts.URL, "--session", sessionDir, added[0].ID.String())
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted record")

		_, err = run(t, "records", "delete", "--server", ts.URL, "--session", sessionDir, added[0].ID.String())
		require.Error(t, err)
	})
}

func TestServe(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, t.TempDir(), t.TempDir(), 1, time.Second)
	}()

	url := fmt.Sprintf("http://%s/health", listener.Addr().String())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
