package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
	"github.com/johnquangdev/clientpulse/internal/usecase/ingest"
)

type fakeRunner struct {
	report   *ingest.RunReport
	statuses []ingest.SourceStatus
	err      error
}

func (r *fakeRunner) Run(context.Context) (*ingest.RunReport, error) { return r.report, r.err }

func (r *fakeRunner) Status(context.Context) ([]ingest.SourceStatus, error) {
	return r.statuses, r.err
}

type fakeMigrator struct {
	down  bool
	limit int
	n     int
}

func (m *fakeMigrator) Migrate(down bool, limit int) (int, error) {
	m.down, m.limit = down, limit
	return m.n, nil
}

type fakeAlerts struct {
	alerts []entities.OpsAlert
	asked  int64
}

func (a *fakeAlerts) Recent(_ context.Context, n int64) ([]entities.OpsAlert, error) {
	a.asked = n
	return a.alerts, nil
}

type upload struct {
	key, contentType, body string
	size                   int64
}

type fakeUploader struct {
	uploads []upload
}

func (u *fakeUploader) UploadFile(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	u.uploads = append(u.uploads, upload{key: key, contentType: contentType, body: string(data), size: size})
	return nil
}

func testDeps(runner SyncRunner, migrator Migrator, alerts AlertReader, uploader Uploader) (Deps, *int) {
	released := 0
	release := func() { released++ }
	return Deps{
		Runner: func(context.Context) (SyncRunner, func(), error) { return runner, release, nil },
		Migrator: func(context.Context) (Migrator, func(), error) {
			return migrator, release, nil
		},
		Alerts:   func(context.Context) (AlertReader, func(), error) { return alerts, release, nil },
		Uploader: func(context.Context) (Uploader, func(), error) { return uploader, release, nil },
	}, &released
}

func execute(t *testing.T, deps Deps, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sampleReport() *ingest.RunReport {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &ingest.RunReport{
		RunID:      uuid.New(),
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Sources: []ingest.SourceRun{
			{SourceID: uuid.New(), Name: "Support inbox", SourceType: entities.SourceTypeEmail, Processed: 3, Errors: 1},
			{SourceID: uuid.New(), Name: "Call recordings", SourceType: entities.SourceTypeDocument, Skipped: true},
		},
	}
}

func TestRunCmd_Table(t *testing.T) {
	deps, released := testDeps(&fakeRunner{report: sampleReport()}, nil, nil, nil)

	out, err := execute(t, deps, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "finished in 1.5s")
	assert.Contains(t, out, "Support inbox")
	assert.Contains(t, out, "not due")
	assert.Contains(t, out, "3 processed, 1 errors")
	assert.Equal(t, 1, *released)
}

func TestRunCmd_JSON(t *testing.T) {
	deps, _ := testDeps(&fakeRunner{report: sampleReport()}, nil, nil, nil)

	out, err := execute(t, deps, "run", "--json")
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, true, body["success"])
	results, ok := body["results"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, results, "Support inbox")
	assert.Contains(t, results, "Call recordings")
}

func TestRunCmd_RunnerError(t *testing.T) {
	deps, released := testDeps(&fakeRunner{err: errors.New("database unavailable")}, nil, nil, nil)

	_, err := execute(t, deps, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
	assert.Equal(t, 1, *released)
}

func TestRunCmd_FactoryError(t *testing.T) {
	deps := Deps{Runner: func(context.Context) (SyncRunner, func(), error) {
		return nil, nil, errors.New("failed to connect to database")
	}}

	_, err := execute(t, deps, "run")
	require.Error(t, err)
}

func TestSourcesCmd(t *testing.T) {
	last := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	next := last.Add(time.Hour)
	runner := &fakeRunner{statuses: []ingest.SourceStatus{
		{Name: "Support inbox", SourceType: entities.SourceTypeEmail, Enabled: true, Registered: true,
			SyncIntervalMinutes: 60, LastSyncedAt: &last, NextSyncAt: &next},
		{Name: "Shared drive", SourceType: entities.SourceTypeDocument, Enabled: true, Due: true},
	}}
	deps, _ := testDeps(runner, nil, nil, nil)

	out, err := execute(t, deps, "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "60m")
	assert.Contains(t, out, "2026-03-01T09:00:00Z")
	assert.Contains(t, out, "document (no processor)")
	assert.Contains(t, out, "manual")
}

func TestSourcesCmd_Empty(t *testing.T) {
	deps, _ := testDeps(&fakeRunner{}, nil, nil, nil)

	out, err := execute(t, deps, "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "No knowledge sources configured.")
}

func TestMigrateCmd(t *testing.T) {
	t.Run("up applies all by default", func(t *testing.T) {
		m := &fakeMigrator{n: 4}
		deps, _ := testDeps(nil, m, nil, nil)

		out, err := execute(t, deps, "migrate", "up")
		require.NoError(t, err)
		assert.False(t, m.down)
		assert.Equal(t, 0, m.limit)
		assert.Contains(t, out, "Applied 4 migration(s)")
	})

	t.Run("up with max", func(t *testing.T) {
		m := &fakeMigrator{n: 1}
		deps, _ := testDeps(nil, m, nil, nil)

		_, err := execute(t, deps, "migrate", "up", "--max", "1")
		require.NoError(t, err)
		assert.Equal(t, 1, m.limit)
	})

	t.Run("down rolls back steps", func(t *testing.T) {
		m := &fakeMigrator{n: 2}
		deps, _ := testDeps(nil, m, nil, nil)

		out, err := execute(t, deps, "migrate", "down", "--steps", "2")
		require.NoError(t, err)
		assert.True(t, m.down)
		assert.Equal(t, 2, m.limit)
		assert.Contains(t, out, "Rolled back 2 migration(s)")
	})

	t.Run("down rejects zero steps", func(t *testing.T) {
		m := &fakeMigrator{}
		deps, released := testDeps(nil, m, nil, nil)

		_, err := execute(t, deps, "migrate", "down", "--steps", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--steps")
		assert.Equal(t, 0, *released)
	})
}

func TestAlertsCmd(t *testing.T) {
	t.Run("no alerts", func(t *testing.T) {
		a := &fakeAlerts{}
		deps, _ := testDeps(nil, nil, a, nil)

		out, err := execute(t, deps, "alerts")
		require.NoError(t, err)
		assert.Equal(t, int64(20), a.asked)
		assert.Contains(t, out, "No recent alerts.")
	})

	t.Run("lists alerts", func(t *testing.T) {
		a := &fakeAlerts{alerts: []entities.OpsAlert{{
			Event:     "knowledge_source_sync_failed",
			Severity:  entities.OpsSeverityError,
			Message:   "Support inbox failed",
			Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		}}}
		deps, _ := testDeps(nil, nil, a, nil)

		out, err := execute(t, deps, "alerts", "-n", "5")
		require.NoError(t, err)
		assert.Equal(t, int64(5), a.asked)
		assert.Contains(t, out, "2026-03-01T09:00:00Z")
		assert.Contains(t, out, "knowledge_source_sync_failed: Support inbox failed")
	})
}

func TestUploadCmd(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("renewal discussed"), 0o600))
	blob := filepath.Join(dir, "call.unknownext")
	require.NoError(t, os.WriteFile(blob, []byte{1, 2, 3}, 0o600))

	u := &fakeUploader{}
	deps, released := testDeps(nil, nil, nil, u)

	out, err := execute(t, deps, "upload", "--prefix", "/clients/acme/", notes, blob)
	require.NoError(t, err)
	require.Len(t, u.uploads, 2)

	assert.Equal(t, "clients/acme/notes.txt", u.uploads[0].key)
	assert.Contains(t, u.uploads[0].contentType, "text/plain")
	assert.Equal(t, "renewal discussed", u.uploads[0].body)
	assert.Equal(t, int64(17), u.uploads[0].size)
	assert.Equal(t, "application/octet-stream", u.uploads[1].contentType)
	assert.Contains(t, out, "-> clients/acme/notes.txt")
	assert.Equal(t, 1, *released)
}

func TestUploadCmd_Errors(t *testing.T) {
	deps, _ := testDeps(nil, nil, nil, &fakeUploader{})

	_, err := execute(t, deps, "upload")
	require.Error(t, err)

	_, err = execute(t, deps, "upload", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	_, err = execute(t, deps, "upload", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "a.md", objectKey("", "/tmp/a.md"))
	assert.Equal(t, "docs/a.md", objectKey("docs", "a.md"))
	assert.Equal(t, "docs/x/a.md", objectKey("/docs/x/", "dir/a.md"))
}
