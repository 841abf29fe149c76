// Package metrics defines observability hooks for the preprocessing
// pipelines. Implementations may forward to Prometheus; the NoopRecorder
// keeps instrumentation optional.
package metrics

import "time"

// Outcome labels for per-file counters.
const (
	OutcomeExported = "exported"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
)

// Recorder defines the hooks recorded by the batch driver and the
// per-file orchestrator.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveFileDuration(d time.Duration)
	IncFileOutcome(outcome string)
	SetWorkerCount(n int)
	IncDownloadedFiles(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are
// not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveFileDuration(time.Duration)          {}
func (NoopRecorder) IncFileOutcome(string)                      {}
func (NoopRecorder) SetWorkerCount(int)                         {}
func (NoopRecorder) IncDownloadedFiles(int)                     {}
