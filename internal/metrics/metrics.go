// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the survey pipeline.
//
// The package is intentionally minimal:
//
//   - It exposes a narrow interface (Backend) for counters and duration
//     observations.
//   - It keeps a global, pluggable backend that defaults to a no-op, so
//     instrumentation calls are always safe even when no backend is
//     configured.
//   - It mirrors the registry pattern of the storage package: the pipeline
//     depends only on this interface while the concrete systems (Prometheus
//     Pushgateway, Datadog) live in subpackages.
//
// A one-shot run instruments its steps (fetch, decode, transform, load) and
// row outcomes without coupling the pipeline to a metrics vendor.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration-style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it. A one-shot
	// process calls it right before exit.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures one pipeline step: a count partitioned by outcome plus
// its duration. Steps are the run phases: "fetch", "decode", "transform",
// "load", and "run" for the whole pipeline.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter("etl_step_total", 1, lbls)
	backend.ObserveHistogram("etl_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRow increments a row-level counter for the given job and kind.
//
// Kinds mirror the run summary:
//   - "decoded"  rows read from the export
//   - "skipped"  malformed lines dropped by the decoder
//   - "inserted" rows that landed in the target table
//   - "failed"   rows the database rejected
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("etl_records_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordRun counts one pipeline execution. With a Pushgateway backend this
// is what makes staleness visible: a job whose run counter stops moving has
// stopped running.
func RecordRun(job string) {
	backend.IncCounter("etl_runs_total", 1, Labels{
		"job": job,
	})
}
