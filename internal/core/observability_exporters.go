package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Zero-dependency exporters for the service's instrumentation hooks. The
// expvar recorder serves /debug/vars deployments and the trace log keeps an
// inspectable record of operation spans. Operation names are the snake_case
// identifiers the service passes to instrument, such as "create_tank" or
// "evaluate_tank_compatibility".

const expvarNamePrefix = "aquacore_service_metrics"

var expvarSeq uint64

// OperationMetrics aggregates the outcomes of one service operation.
type OperationMetrics struct {
	Success int64   `json:"success"`
	Errors  int64   `json:"errors"`
	TotalMS float64 `json:"total_ms"`
}

// ExpvarMetricsRecorder publishes per-operation counters and cumulative
// timings via expvar. It fulfills MetricsRecorder for deployments that do not
// run a Prometheus scrape.
type ExpvarMetricsRecorder struct {
	name string
	mu   sync.Mutex
	ops  map[string]OperationMetrics
}

// ExpvarMetricsSnapshot is a read-only view of the recorded metrics, keyed by
// operation name.
type ExpvarMetricsSnapshot struct {
	Operations map[string]OperationMetrics `json:"operations"`
	RecordedAt time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs a recorder and publishes it under the
// supplied expvar name. When name is empty a unique aquacore_service_metrics_N
// name is generated, so multiple services in one process never collide.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		name = fmt.Sprintf("%s_%d", expvarNamePrefix, atomic.AddUint64(&expvarSeq, 1))
	}
	rec := &ExpvarMetricsRecorder{
		name: name,
		ops:  make(map[string]OperationMetrics),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make(map[string]OperationMetrics, len(r.ops))
	for name, m := range r.ops {
		ops[name] = m
	}
	return ExpvarMetricsSnapshot{
		Operations: ops,
		RecordedAt: time.Now().UTC(),
	}
}

// Observe records one service operation outcome.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	r.mu.Lock()
	m := r.ops[operation]
	if success {
		m.Success++
	} else {
		m.Errors++
	}
	m.TotalMS += float64(duration) / float64(time.Millisecond)
	r.ops[operation] = m
	r.mu.Unlock()
}

// TraceEntry is one completed operation span emitted by TraceLog.
type TraceEntry struct {
	Operation  string    `json:"operation"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	DurationMS float64   `json:"duration_ms"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// TraceLog is a Tracer that writes completed spans as JSON lines and retains
// them in memory for inspection. A nil writer keeps spans in memory only.
type TraceLog struct {
	mu      sync.Mutex
	entries []TraceEntry
	enc     *json.Encoder
}

// NewTraceLog constructs a trace log over the given writer.
func NewTraceLog(w io.Writer) *TraceLog {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}
	return &TraceLog{enc: enc}
}

// Entries returns a copy of all completed spans in completion order.
func (t *TraceLog) Entries() []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Start implements the Tracer interface.
func (t *TraceLog) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &traceLogSpan{
		log:       t,
		operation: operation,
		started:   time.Now().UTC(),
	}
}

type traceLogSpan struct {
	log       *TraceLog
	operation string
	started   time.Time
}

func (s *traceLogSpan) End(err error) {
	ended := time.Now().UTC()
	entry := TraceEntry{
		Operation:  s.operation,
		OK:         err == nil,
		DurationMS: float64(ended.Sub(s.started)) / float64(time.Millisecond),
		StartedAt:  s.started,
		EndedAt:    ended,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	s.log.mu.Lock()
	s.log.entries = append(s.log.entries, entry)
	if s.log.enc != nil {
		_ = s.log.enc.Encode(entry)
	}
	s.log.mu.Unlock()
}
