// Package cli provides the ghpipe command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghpipe/internal/config"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ghpipe/internal/logger"
	"github.com/custodia-labs/ghpipe/internal/metrics"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flag values.
var (
	configPath  string
	envFile     string
	dataDir     string
	verboseFlag bool
	metricsFile string
)

// Per-invocation state populated by PersistentPreRunE.
var (
	cfg   *config.Config
	runID string
)

// stdin is read by interactive selectors. Tests replace it.
var stdin io.Reader = os.Stdin

// PipelineFactory builds a pipeline from the loaded config. The returned
// closer releases the document store if a run opened it.
type PipelineFactory func(cfg *config.Config) (driving.Pipeline, func() error, error)

// newPipeline is replaced in tests.
var newPipeline PipelineFactory = BuildPipeline

var rootCmd = &cobra.Command{
	Use:   "ghpipe",
	Short: "Collect GitHub metadata into snapshots, archives and a document store",
	Long: `ghpipe searches GitHub for a user's repositories, lists the workflow runs of
the repositories it found, writes every page to a JSON snapshot, packs the
snapshots into an encrypted archive and loads them into a document store.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default .ghpipe.yaml in CWD or $HOME)")
	flags.StringVar(&envFile, "env-file", "", "dotenv file (default .env when present)")
	flags.StringVar(&dataDir, "data-dir", "", "data directory (overrides data_dir)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&metricsFile, "metrics-file", "", "write run metrics to this file in textfile format")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	runID = uuid.NewString()
	logger.SetRunID(runID)

	loaded, err := config.Load(config.Options{ConfigPath: configPath, EnvFile: envFile})
	if err != nil {
		return err
	}
	if dataDir != "" {
		loaded.DataDir = dataDir
	}
	cfg = loaded

	logger.Debug("config loaded: driver=%s backend=%s data_dir=%s", cfg.Store.Driver, cfg.Archive.Backend, cfg.DataDir)
	return nil
}

// runPipeline builds a pipeline, runs one request and prints the reports.
func runPipeline(cmd *cobra.Command, req driving.RunRequest) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pipeline, closeFn, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil {
			logger.Warn("close store: %v", cerr)
		}
	}()

	start := time.Now()
	report, runErr := pipeline.Run(ctx, req)
	elapsed := time.Since(start)

	printReport(cmd.OutOrStdout(), report)

	if err := writeMetrics(req, report, elapsed, runErr); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr != nil {
		return fmt.Errorf("%s %s: %w", req.Mode, req.Category, runErr)
	}
	return nil
}

func writeMetrics(req driving.RunRequest, report *driving.RunReport, elapsed time.Duration, runErr error) error {
	if metricsFile == "" {
		return nil
	}
	rec := metrics.NewRecorder(runID)
	rec.ObserveRun(req, report, elapsed, runErr)
	return rec.WriteTextfile(metricsFile)
}
