// Package testutils holds helpers shared by tests across the module.
package testutils

import (
	"sync"
	"testing"

	"go.opencensus.io/trace"
)

// SpanRecorder is a trace exporter that keeps every finished span.
type SpanRecorder struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

// NewSpanRecorder samples every span and records it until the test ends.
func NewSpanRecorder(tb testing.TB) *SpanRecorder {
	tb.Helper()
	rec := &SpanRecorder{}
	trace.RegisterExporter(rec)
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	tb.Cleanup(func() {
		trace.UnregisterExporter(rec)
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1e-4)})
	})
	return rec
}

// ExportSpan implements trace.Exporter.
func (rec *SpanRecorder) ExportSpan(s *trace.SpanData) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.spans = append(rec.spans, s)
}

// Named returns the recorded spans called name, in the order they ended.
func (rec *SpanRecorder) Named(name string) []*trace.SpanData {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	var out []*trace.SpanData
	for _, s := range rec.spans {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
