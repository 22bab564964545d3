package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
)

func TestRecorder_ObserveRun(t *testing.T) {
	r := NewRecorder("run-1")
	req := driving.RunRequest{Mode: domain.ModeCollect, Category: domain.CategoryRepositories}
	report := &driving.RunReport{
		Collect: &domain.CollectReport{Category: domain.CategoryRepositories, Calls: 4, Retries: 1, Files: 3, Documents: 12},
		Archive: &domain.ArchiveReport{Category: domain.CategoryRepositories, ArchiveSize: 100, EncryptedSize: 140},
		Sync: &domain.SyncReport{
			Category: domain.CategoryRepositories, Loaded: 12, Written: 11, Failed: 1, Skipped: []string{"repos-9.json"},
		},
	}

	r.ObserveRun(req, report, 2*time.Second, nil)

	assert.InDelta(t, 4, testutil.ToFloat64(r.calls.WithLabelValues("repos")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.retries.WithLabelValues("repos")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(r.files.WithLabelValues("repos")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(r.loaded.WithLabelValues("repos")), 0)
	assert.InDelta(t, 11, testutil.ToFloat64(r.written.WithLabelValues("repos")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.failed.WithLabelValues("repos")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.skipped.WithLabelValues("repos")), 0)
	assert.InDelta(t, 140, testutil.ToFloat64(r.archive.WithLabelValues("repos", "encrypted")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.duration.WithLabelValues("collect", "repos")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(r.success.WithLabelValues("collect", "repos")), 0)
}

func TestRecorder_FailedRun(t *testing.T) {
	r := NewRecorder("run-2")
	req := driving.RunRequest{Mode: domain.ModeSync, Category: domain.CategoryWorkflowRuns}

	r.ObserveRun(req, nil, time.Second, errors.New("boom"))

	assert.InDelta(t, 0, testutil.ToFloat64(r.success.WithLabelValues("sync", "workflows")), 0)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder("run-3")
	r.ObserveRun(driving.RunRequest{Mode: domain.ModeArchive, Category: domain.CategoryRepositories},
		&driving.RunReport{Archive: &domain.ArchiveReport{Category: domain.CategoryRepositories, ArchiveSize: 10}},
		time.Second, nil)

	path := filepath.Join(t.TempDir(), "ghpipe.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# TYPE ghpipe_archive_bytes gauge")
	assert.Contains(t, text, `ghpipe_archive_bytes{category="repos",kind="plain",run_id="run-3"} 10`)
	assert.Contains(t, text, `ghpipe_run_success{category="repos",mode="archive",run_id="run-3"} 1`)
}
