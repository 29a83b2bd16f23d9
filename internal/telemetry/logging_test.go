package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFilterLogsByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.InfoContext(context.Background(), "filtered")
	if buf.Len() != 0 {
		t.Fatalf("expected no output for info at warn level, got %s", buf.String())
	}

	logger.WarnContext(context.Background(), "kept")
	if decodeLogLine(t, &buf)["msg"] != "kept" {
		t.Errorf("expected warn record to be written, got %s", buf.String())
	}
}

func TestTraceAndSpanIDInclusion(t *testing.T) {
	setupTracerProvider(t)

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	ctx, span := StartSpan(context.Background(), "test-span")
	defer span.End()

	logger.InfoContext(ctx, "test message", "numero_orden", "PO-1")

	entry := decodeLogLine(t, &buf)
	if entry["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace_id %s, got %v", span.SpanContext().TraceID(), entry["trace_id"])
	}
	if entry["span_id"] != span.SpanContext().SpanID().String() {
		t.Errorf("expected span_id %s, got %v", span.SpanContext().SpanID(), entry["span_id"])
	}
	if entry["numero_orden"] != "PO-1" {
		t.Errorf("expected numero_orden PO-1, got %v", entry["numero_orden"])
	}
}

func TestLogWithoutContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.InfoContext(context.Background(), "test message")

	entry := decodeLogLine(t, &buf)
	for _, key := range []string{"trace_id", "span_id", "request_id"} {
		if _, exists := entry[key]; exists {
			t.Errorf("expected %s to be absent", key)
		}
	}
}

func TestRequestIDInclusion(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	ctx := WithRequestID(context.Background(), "req-123")
	if RequestID(ctx) != "req-123" {
		t.Fatalf("expected request id to round-trip, got %q", RequestID(ctx))
	}

	logger.InfoContext(ctx, "handled")

	if entry := decodeLogLine(t, &buf); entry["request_id"] != "req-123" {
		t.Errorf("expected request_id req-123, got %v", entry["request_id"])
	}
}

func TestLogWithAttributesAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).
		With("component", "orders").
		WithGroup("order")

	logger.InfoContext(context.Background(), "created", "id", 42)

	entry := decodeLogLine(t, &buf)
	if entry["component"] != "orders" {
		t.Errorf("expected component attribute, got %v", entry["component"])
	}
	group, ok := entry["order"].(map[string]any)
	if !ok {
		t.Fatalf("expected order group, got %v", entry["order"])
	}
	if group["id"] != float64(42) {
		t.Errorf("expected order.id 42, got %v", group["id"])
	}
}
