package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"perfdash/internal/platform/metrics"
	"perfdash/internal/requestctx"
)

func TestLoggerRecordsRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(RequestID)
	router.Use(Logger(logger, collector))
	router.Get("/profile/{empID}", func(w http.ResponseWriter, r *http.Request) {
		if requestctx.Logger(r.Context()) == slog.Default() {
			t.Fatal("expected request scoped logger")
		}
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/42", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one json log line, got %q: %v", buf.String(), err)
	}
	if entry["route"] != "/profile/{empID}" {
		t.Fatalf("expected route pattern, got %v", entry["route"])
	}
	if entry["status"].(float64) != http.StatusNotFound {
		t.Fatalf("expected status 404, got %v", entry["status"])
	}
	if entry["requestId"] == "" {
		t.Fatal("expected request id in log entry")
	}
	if collector.Snapshot()["notFoundTotal"].(uint64) != 1 {
		t.Fatal("expected not found to be counted")
	}
}

func TestLoggerGroupsUnmatchedPaths(t *testing.T) {
	collector := metrics.New()
	router := chi.NewRouter()
	router.Use(RequestID)
	router.Use(Logger(slog.New(slog.NewJSONHandler(io.Discard, nil)), collector))
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	for i := 0; i < 1000; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan-%d", i), nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unmatched path, got %d", rec.Code)
		}
	}

	snap := collector.Snapshot()
	routes := snap["routes"].([]metrics.RouteCount)
	if len(routes) != 1 || routes[0].Route != metrics.UnmatchedRoute || routes[0].Requests != 1000 {
		t.Fatalf("expected one unmatched route key, got %d keys: %+v", len(routes), routes[:min(len(routes), 3)])
	}
	if snap["notFoundTotal"].(uint64) != 1000 {
		t.Fatalf("expected 1000 not found, got %v", snap["notFoundTotal"])
	}
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatal("expected frame options header")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected hsts in production")
	}
}
