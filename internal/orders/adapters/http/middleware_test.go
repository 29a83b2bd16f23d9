package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dejobratic/ordenes/internal/telemetry"
)

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = telemetry.RequestID(r.Context())
	}))

	t.Run("keeps client supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ordenes/*", nil)
		req.Header.Set(requestIDHeader, "client-id")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if seen != "client-id" {
			t.Errorf("expected context id client-id, got %q", seen)
		}
		if rec.Header().Get(requestIDHeader) != "client-id" {
			t.Errorf("expected response header client-id, got %q", rec.Header().Get(requestIDHeader))
		}
	})

	t.Run("generates uuid when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ordenes/*", nil))

		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("expected generated uuid, got %q", seen)
		}
		if rec.Header().Get(requestIDHeader) != seen {
			t.Error("expected response header to echo generated id")
		}
	})
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, slog.LevelInfo)

	handler := WithRequestID(WithLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest(http.MethodPost, "/ordenes", nil)
	req.Header.Set(requestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["status"] != float64(http.StatusCreated) {
		t.Errorf("expected status 201, got %v", entry["status"])
	}
	if entry["path"] != "/ordenes" || entry["method"] != http.MethodPost {
		t.Errorf("unexpected request fields %v", entry)
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("expected request_id req-1, got %v", entry["request_id"])
	}
}

func TestWithRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, slog.LevelInfo)

	handler := WithRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ordenes/*", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic to be logged, got %s", buf.String())
	}
}
