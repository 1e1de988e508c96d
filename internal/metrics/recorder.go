// Package metrics provides observability hooks for scan and generation runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics impose zero overhead unless a real implementation
// is wired in (the dev server registers the Prometheus one on /metrics).
package metrics

import "time"

// Classification labels for scan result counters.
const (
	ResultModified = "modified"
	ResultDeleted  = "deleted"
	ResultForced   = "forced"
)

// Recorder defines observability hooks for change detection and generation.
type Recorder interface {
	IncScanResult(category, result string)
	ObserveScanDuration(category string, d time.Duration)
	IncServerRequest(route string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncScanResult(string, string)              {}
func (NoopRecorder) ObserveScanDuration(string, time.Duration) {}
func (NoopRecorder) IncServerRequest(string)                   {}
