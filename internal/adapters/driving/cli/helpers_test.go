package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghpipe/internal/config"
	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

// mockPipeline implements driving.Pipeline and records every call.
type mockPipeline struct {
	requests []driving.RunRequest
	built    int
	closed   int

	report *driving.RunReport
	err    error

	snapshots map[domain.Category][]domain.SnapshotInfo
	snapErr   error

	factoryErr error
}

func (m *mockPipeline) factory(_ *config.Config) (driving.Pipeline, func() error, error) {
	if m.factoryErr != nil {
		return nil, nil, m.factoryErr
	}
	m.built++
	return m, func() error {
		m.closed++
		return nil
	}, nil
}

func (m *mockPipeline) Run(_ context.Context, req driving.RunRequest) (*driving.RunReport, error) {
	m.requests = append(m.requests, req)
	return m.report, m.err
}

func (m *mockPipeline) Snapshots(_ context.Context, category domain.Category) ([]domain.SnapshotInfo, error) {
	if m.snapErr != nil {
		return nil, m.snapErr
	}
	return m.snapshots[category], nil
}

var wellKnownEnv = []string{"GITHUB_TOKEN", "MONGODB_CONNECTION_STRING", "MONGODB_DATABASE", "GPG_PASSPHRASE"}

// setupCLITest swaps the pipeline factory and stdin, points --config at an
// empty file and captures command output.
func setupCLITest(t *testing.T, p *mockPipeline, input string) *bytes.Buffer {
	t.Helper()

	oldFactory, oldStdin := newPipeline, stdin
	if p != nil {
		newPipeline = p.factory
	}
	stdin = strings.NewReader(input)
	color.NoColor = true

	dir := t.TempDir()
	emptyCfg := filepath.Join(dir, "ghpipe.yaml")
	require.NoError(t, os.WriteFile(emptyCfg, nil, 0o600))

	configPath = emptyCfg
	envFile = ""
	dataDir = filepath.Join(dir, ".data")
	metricsFile = ""
	verboseFlag = false
	for _, name := range wellKnownEnv {
		t.Setenv(name, "")
	}
	logger.SetOutput(io.Discard)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	t.Cleanup(func() {
		newPipeline, stdin = oldFactory, oldStdin
		configPath, envFile, dataDir, metricsFile = "", "", "", ""
		verboseFlag = false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		logger.Reset()
	})
	return buf
}

func execute(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
