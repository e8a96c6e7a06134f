package ygggo_jdbd

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installExporter(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(trace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return exporter
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTelemetry_QuerySpan(t *testing.T) {
	exporter := installExporter(t)

	d := newStubDriver(t, &stubSession{})
	d.EnableTelemetry(true)
	ctx := context.Background()
	if err := d.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	exporter.Reset()

	stmt := NewPreparedStatement("SELECT * FROM users WHERE id=?")
	_ = stmt.BindInt(0, 1)
	if _, err := d.Query(ctx, stmt); err != nil {
		t.Fatalf("Query: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "ygggo_jdbd.query" {
		t.Fatalf("span name=%s", span.Name)
	}
	if span.Status.Code != codes.Ok {
		t.Fatalf("span status=%v", span.Status)
	}

	expectedAttrs := map[string]string{
		"db.system":      "mysql",
		"db.operation":   "query",
		"db.statement":   "SELECT * FROM users WHERE id=?",
		"jdbd.driver_id": d.ID(),
	}
	for key, expected := range expectedAttrs {
		v, ok := attrValue(span.Attributes, key)
		if !ok || v.AsString() != expected {
			t.Fatalf("missing attribute %s=%v", key, expected)
		}
	}
	if v, ok := attrValue(span.Attributes, "db.parameter_count"); !ok || v.AsInt64() != 1 {
		t.Fatalf("db.parameter_count=%v", v.Emit())
	}
}

func TestTelemetry_ErrorSpan(t *testing.T) {
	exporter := installExporter(t)

	d := newStubDriver(t, &stubSession{err: errors.New("table missing")})
	d.EnableTelemetry(true)
	ctx := context.Background()
	_ = d.Load(ctx)
	exporter.Reset()

	if _, err := d.Execute(ctx, NewPreparedStatement("DROP TABLE nope")); err == nil {
		t.Fatalf("expected error")
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "ygggo_jdbd.execute" {
		t.Fatalf("span name=%s", spans[0].Name)
	}
	if spans[0].Status.Code != codes.Error || spans[0].Status.Description != "table missing" {
		t.Fatalf("span status=%v", spans[0].Status)
	}
	if len(spans[0].Events) == 0 {
		t.Fatalf("expected a recorded error event")
	}
}

func TestTelemetry_LoadSpan(t *testing.T) {
	exporter := installExporter(t)

	d := newStubDriver(t, &stubSession{})
	d.EnableTelemetry(true)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "ygggo_jdbd.load" {
		t.Fatalf("unexpected spans: %v", spans)
	}
	if _, ok := attrValue(spans[0].Attributes, "db.statement"); ok {
		t.Fatalf("load span must not carry a statement")
	}
}

func TestTelemetry_DisabledCreatesNoSpans(t *testing.T) {
	exporter := installExporter(t)

	d := newStubDriver(t, &stubSession{})
	ctx := context.Background()
	_ = d.Load(ctx)
	_, _ = d.Query(ctx, NewPreparedStatement("SELECT 1"))
	if n := len(exporter.GetSpans()); n != 0 {
		t.Fatalf("expected no spans, got %d", n)
	}
}

func TestTelemetry_UnloadSpan(t *testing.T) {
	exporter := installExporter(t)

	d := newStubDriver(t, &stubSession{})
	d.EnableTelemetry(true)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	exporter.Reset()

	if err := d.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "ygggo_jdbd.unload" {
		t.Fatalf("unexpected spans: %v", spans)
	}
	if spans[0].Status.Code != codes.Ok {
		t.Fatalf("span status=%v", spans[0].Status)
	}
	if v, ok := attrValue(spans[0].Attributes, "db.operation"); !ok || v.AsString() != "unload" {
		t.Fatalf("db.operation=%v", v.Emit())
	}
}

func TestTelemetry_UnloadCloseErrorSpan(t *testing.T) {
	exporter := installExporter(t)

	d := newStubDriver(t, &stubSession{closeErr: errors.New("close failed")})
	d.EnableTelemetry(true)
	_ = d.Load(context.Background())
	exporter.Reset()

	if err := d.Unload(); err == nil {
		t.Fatalf("expected close error")
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Status.Code != codes.Error {
		t.Fatalf("unexpected spans: %v", spans)
	}
}
