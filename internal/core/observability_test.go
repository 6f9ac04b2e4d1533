package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aquacore/internal/infra/persistence/memory"
	"aquacore/pkg/domain"
)

func TestExpvarMetricsRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()

	rec.Observe(ctx, "create_tank", true, 30*time.Millisecond)
	rec.Observe(ctx, "create_tank", true, 20*time.Millisecond)
	rec.Observe(ctx, "create_tank", false, 5*time.Millisecond)
	rec.Observe(ctx, "", true, time.Second)

	snap := rec.Snapshot()
	m := snap.Operations["create_tank"]
	if m.TotalMS != 55 {
		t.Fatalf("expected 55ms total, got %v", m.TotalMS)
	}
	if m.Success != 2 || m.Errors != 1 {
		t.Fatalf("unexpected result counts: %+v", m)
	}
	if _, ok := snap.Operations[""]; ok {
		t.Fatalf("empty operation name must be dropped: %+v", snap.Operations)
	}
	if !strings.HasPrefix(rec.Name(), "aquacore_service_metrics_") {
		t.Fatalf("expected generated aquacore expvar name, got %q", rec.Name())
	}
}

func TestExpvarMetricsRecorderHonorsExplicitName(t *testing.T) {
	rec := NewExpvarMetricsRecorder("aquacore_test_metrics")
	if rec.Name() != "aquacore_test_metrics" {
		t.Fatalf("expected explicit name to be kept, got %q", rec.Name())
	}
	if expvar.Get("aquacore_test_metrics") == nil {
		t.Fatalf("expected recorder to be published under its name")
	}
}

func TestTraceLogEmitsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewTraceLog(&buf)

	_, span := tracer.Start(context.Background(), "evaluate_tank_compatibility")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "create_tank")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(entries))
	}
	if !entries[0].OK || entries[1].OK {
		t.Fatalf("unexpected outcomes: %+v", entries)
	}
	if entries[1].Error != "boom" {
		t.Fatalf("expected recorded error, got %q", entries[1].Error)
	}

	dec := json.NewDecoder(&buf)
	var first TraceEntry
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decode first span: %v", err)
	}
	if first.Operation != "evaluate_tank_compatibility" {
		t.Fatalf("unexpected operation %q", first.Operation)
	}
}

func TestPrometheusRecorderExposesMetrics(t *testing.T) {
	rec := NewPrometheusMetricsRecorder()
	ctx := context.Background()

	rec.Observe(ctx, "create_tank", true, 12*time.Millisecond)
	rec.Observe(ctx, "create_tank", false, 7*time.Millisecond)

	families, err := rec.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	if !names["aquacore_operations_total"] || !names["aquacore_operation_duration_seconds"] {
		t.Fatalf("expected both metric families, got %v", names)
	}

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(body.String(), "aquacore_operations_total") {
		t.Fatalf("exposition missing counter: %s", body.String())
	}
}

func TestServiceInstrumentationRecordsOperations(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	tracer := NewTraceLog(nil)
	catalog := testCatalog(t)
	store := memory.NewStore(NewDefaultRulesEngine(catalog))
	svc := NewService(store, catalog, WithMetrics(rec), WithTracer(tracer))
	ctx := context.Background()

	if _, _, err := svc.CreateTank(ctx, Tank{Name: "Reef", WaterType: domain.WaterSaltwater, VolumeL: 100}); err != nil {
		t.Fatalf("create tank: %v", err)
	}
	if _, _, err := svc.CreateTank(ctx, Tank{}); err == nil {
		t.Fatalf("expected validation failure")
	}

	snap := rec.Snapshot()
	if m := snap.Operations["create_tank"]; m.Success != 1 || m.Errors != 1 {
		t.Fatalf("unexpected instrumentation counts: %+v", snap.Operations)
	}
	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Operation != "create_tank" {
			t.Fatalf("unexpected span operation %q", entry.Operation)
		}
	}
}
