package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"perfdash/internal/domain/performance"
	"perfdash/internal/platform/config"
	"perfdash/internal/platform/metrics"
	"perfdash/internal/transport/http/view"
)

type stubService struct{}

func (stubService) Directory(ctx context.Context) (performance.Directory, error) {
	return performance.Directory{Employees: []performance.Employee{{ID: 1, Name: "Asha Raman"}}}, nil
}

func (stubService) Profile(ctx context.Context, employeeID int64) (performance.Profile, error) {
	return performance.Profile{}, performance.ErrEmployeeNotFound
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestRouter(t *testing.T, ping Pinger, collector *metrics.Collector) http.Handler {
	t.Helper()
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return NewRouter(Deps{
		Config:  config.Config{Environment: "test"},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Service: stubService{},
		View:    renderer,
		DB:      ping,
		Metrics: collector,
	})
}

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	healthy := newTestRouter(t, pingFunc(func(context.Context) error { return nil }), nil)
	if rec := serve(healthy, http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
	if rec := serve(healthy, http.MethodGet, "/readyz"); rec.Code != http.StatusOK {
		t.Fatalf("expected readyz 200, got %d", rec.Code)
	}

	down := newTestRouter(t, pingFunc(func(context.Context) error { return errors.New("refused") }), nil)
	if rec := serve(down, http.MethodGet, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected readyz 503, got %d", rec.Code)
	}
}

func TestRouterServesPagesWithHeaders(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := serve(router, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Fatal("expected security headers")
	}
	if !strings.Contains(rec.Body.String(), "Asha Raman") {
		t.Fatal("expected employee listing")
	}
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := serve(router, http.MethodGet, "/profile/abc")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Page not found.") {
		t.Fatalf("expected html 404, got %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, http.MethodGet, "/profile/12")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Employee not found.") {
		t.Fatalf("expected employee 404, got %d", rec.Code)
	}

	if rec := serve(router, http.MethodPost, "/"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	if rec := serve(newTestRouter(t, nil, nil), http.MethodGet, "/metrics"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected metrics disabled, got %d", rec.Code)
	}

	router := newTestRouter(t, nil, metrics.New())
	serve(router, http.MethodGet, "/")
	rec := serve(router, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"requestsTotal":1`) {
		t.Fatalf("unexpected metrics response %d %s", rec.Code, rec.Body.String())
	}
}
