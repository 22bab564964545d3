// Package metrics records per-run pipeline counters and writes them in the
// node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
)

const namespace = "ghpipe"

// Recorder holds the metrics of one run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	calls     *prometheus.CounterVec
	retries   *prometheus.CounterVec
	files     *prometheus.CounterVec
	fetched   *prometheus.CounterVec
	loaded    *prometheus.CounterVec
	written   *prometheus.CounterVec
	failed    *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	archive   *prometheus.GaugeVec
	duration  *prometheus.GaugeVec
	success   *prometheus.GaugeVec
	lastRunAt prometheus.Gauge
}

// NewRecorder creates a recorder whose series carry the run id.
func NewRecorder(runID string) *Recorder {
	constLabels := prometheus.Labels{"run_id": runID}
	category := []string{"category"}

	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: constLabels,
		}, category)
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		calls:    counter("fetch_calls_total", "Remote fetch calls issued."),
		retries:  counter("fetch_retries_total", "Fetch calls throttled and retried."),
		files:    counter("snapshot_files_written_total", "Snapshot files written."),
		fetched:  counter("documents_fetched_total", "Documents fetched from the API."),
		loaded:   counter("documents_loaded_total", "Documents loaded from snapshots."),
		written:  counter("documents_written_total", "Documents written to the store."),
		failed:   counter("documents_failed_total", "Documents the store rejected."),
		skipped:  counter("snapshot_files_skipped_total", "Snapshot files that failed to parse."),
		archive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "archive_bytes", Help: "Archive size in bytes.", ConstLabels: constLabels,
		}, []string{"category", "kind"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "run_duration_seconds", Help: "Wall time of the run.", ConstLabels: constLabels,
		}, []string{"mode", "category"}),
		success: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "run_success", Help: "1 if the run finished without error.", ConstLabels: constLabels,
		}, []string{"mode", "category"}),
		lastRunAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_run_timestamp_seconds", Help: "Unix time the run finished.", ConstLabels: constLabels,
		}),
	}

	r.registry.MustRegister(
		r.calls, r.retries, r.files, r.fetched,
		r.loaded, r.written, r.failed, r.skipped,
		r.archive, r.duration, r.success, r.lastRunAt,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records the reports of one pipeline run.
// A nil report records only duration and outcome.
func (r *Recorder) ObserveRun(req driving.RunRequest, report *driving.RunReport, elapsed time.Duration, runErr error) {
	category := string(req.Category)

	if report != nil {
		if c := report.Collect; c != nil {
			r.observeCollect(c)
		}
		if a := report.Archive; a != nil {
			r.observeArchive(a)
		}
		if s := report.Sync; s != nil {
			r.observeSync(s)
		}
	}

	r.duration.WithLabelValues(string(req.Mode), category).Set(elapsed.Seconds())
	ok := 0.0
	if runErr == nil {
		ok = 1
	}
	r.success.WithLabelValues(string(req.Mode), category).Set(ok)
	r.lastRunAt.SetToCurrentTime()
}

func (r *Recorder) observeCollect(c *domain.CollectReport) {
	l := string(c.Category)
	r.calls.WithLabelValues(l).Add(float64(c.Calls))
	r.retries.WithLabelValues(l).Add(float64(c.Retries))
	r.files.WithLabelValues(l).Add(float64(c.Files))
	r.fetched.WithLabelValues(l).Add(float64(c.Documents))
}

func (r *Recorder) observeArchive(a *domain.ArchiveReport) {
	l := string(a.Category)
	r.archive.WithLabelValues(l, "plain").Set(float64(a.ArchiveSize))
	r.archive.WithLabelValues(l, "encrypted").Set(float64(a.EncryptedSize))
}

func (r *Recorder) observeSync(s *domain.SyncReport) {
	l := string(s.Category)
	r.loaded.WithLabelValues(l).Add(float64(s.Loaded))
	r.written.WithLabelValues(l).Add(float64(s.Written))
	r.failed.WithLabelValues(l).Add(float64(s.Failed))
	r.skipped.WithLabelValues(l).Add(float64(len(s.Skipped)))
}

// WriteTextfile writes the registry to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
