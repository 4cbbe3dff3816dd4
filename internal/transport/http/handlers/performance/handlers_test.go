package performancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"perfdash/internal/domain/performance"
	"perfdash/internal/transport/http/middleware"
	"perfdash/internal/transport/http/view"
)

type fakeService struct {
	employees []performance.Employee
	profiles  map[int64]performance.Profile
	err       error
}

func (f *fakeService) Directory(ctx context.Context) (performance.Directory, error) {
	if f.err != nil {
		return performance.Directory{}, f.err
	}
	return performance.Directory{Employees: f.employees}, nil
}

func (f *fakeService) Profile(ctx context.Context, employeeID int64) (performance.Profile, error) {
	if f.err != nil {
		return performance.Profile{}, f.err
	}
	profile, ok := f.profiles[employeeID]
	if !ok {
		return performance.Profile{}, performance.ErrEmployeeNotFound
	}
	return profile, nil
}

func newTestRouter(t *testing.T, svc ProfileService) http.Handler {
	t.Helper()
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	h := NewHandler(svc, renderer)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	h.RegisterRoutes(router)
	router.Route("/api/v1", h.RegisterAPIRoutes)
	return router
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func employee7Service() *fakeService {
	emp := performance.Employee{ID: 7, Name: "Asha Raman", Designation: "Senior Engineer", Department: "engineering"}
	return &fakeService{
		employees: []performance.Employee{emp, {ID: 8, Name: "Neha Iyer"}, {ID: 9, Name: "Rohan Das"}},
		profiles: map[int64]performance.Profile{
			7: {
				Employee: emp,
				KRAs: []performance.KRA{
					{ID: 1, EmployeeID: 7, Title: "Reliability"},
					{ID: 2, EmployeeID: 7, Title: "Mentoring"},
				},
				KPIs:      []performance.KPI{{ID: 1, EmployeeID: 7, Metric: "Availability", Target: 99.9, Actual: 99.5}},
				Appraisal: &performance.Appraisal{ID: 1, EmployeeID: 7, Year: 2024, Rating: 4.5, Reviewer: "Vikram Shah"},
				Feedback: []performance.Feedback{
					{ID: 1, EmployeeID: 7, Reviewer: "Reviewer A", Relationship: performance.RelationshipManager, Rating: 4},
					{ID: 2, EmployeeID: 7, Reviewer: "Reviewer B", Relationship: performance.RelationshipPeer, Rating: 5},
					{ID: 3, EmployeeID: 7, Reviewer: "Reviewer C", Relationship: performance.RelationshipPeer, Rating: 3},
				},
			},
			8: {Employee: performance.Employee{ID: 8, Name: "Neha Iyer"}},
		},
	}
}

func TestIndexListsEveryEmployee(t *testing.T) {
	svc := employee7Service()
	rec := get(t, newTestRouter(t, svc), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.Count(rec.Body.String(), `<tr class="employee">`); got != len(svc.employees) {
		t.Fatalf("expected %d employee rows, got %d", len(svc.employees), got)
	}
}

func TestIndexFailureRendersErrorPage(t *testing.T) {
	rec := get(t, newTestRouter(t, &fakeService{err: errors.New("db down")}), "/")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Employees could not be loaded.") {
		t.Fatalf("expected error message, got %s", rec.Body.String())
	}
}

func TestProfileExample(t *testing.T) {
	rec := get(t, newTestRouter(t, employee7Service()), "/profile/7")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	checks := map[string]int{
		"Asha Raman":              1,
		`<tr class="kra">`:        2,
		`<tr class="kpi">`:        1,
		`<div class="appraisal">`: 1,
		`<tr class="goal">`:       0,
		`<tr class="feedback">`:   3,
		"No goals set.":           1,
		"No appraisal recorded.":  0,
		`href="/profile/7/pdf"`:   1,
	}
	for needle, want := range checks {
		if got := strings.Count(body, needle); got != want {
			t.Fatalf("expected %q %d times, got %d", needle, want, got)
		}
	}
}

func TestProfileWithoutRecords(t *testing.T) {
	rec := get(t, newTestRouter(t, employee7Service()), "/profile/8")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, text := range []string{"No KRAs assigned.", "No KPIs tracked.", "No appraisal recorded.", "No goals set.", "No feedback received."} {
		if !strings.Contains(body, text) {
			t.Fatalf("expected %q in body", text)
		}
	}
}

func TestProfileNotFound(t *testing.T) {
	router := newTestRouter(t, employee7Service())

	for _, path := range []string{"/profile/404", "/profile/0", "/profile/99999999999999999999", "/profile/abc", "/profile/-1"} {
		rec := get(t, router, path)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestProfileFailureIsNotNotFound(t *testing.T) {
	rec := get(t, newTestRouter(t, &fakeService{err: errors.New("timeout")}), "/profile/7")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestProfilePDF(t *testing.T) {
	rec := get(t, newTestRouter(t, employee7Service()), "/profile/7/pdf")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatal("expected pdf body")
	}

	if rec := get(t, newTestRouter(t, employee7Service()), "/profile/404/pdf"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown employee pdf, got %d", rec.Code)
	}
}

func TestAPIProfile(t *testing.T) {
	router := newTestRouter(t, employee7Service())

	rec := get(t, router, "/api/v1/employees/7/profile")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Success bool                `json:"success"`
		Data    performance.Profile `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success || payload.Data.Employee.ID != 7 || len(payload.Data.Feedback) != 3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	rec = get(t, router, "/api/v1/employees/404/profile")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"not_found"`) {
		t.Fatalf("expected not_found envelope, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAPIListEmployees(t *testing.T) {
	svc := employee7Service()
	rec := get(t, newTestRouter(t, svc), "/api/v1/employees")

	var payload struct {
		Data performance.Directory `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Data.Employees) != len(svc.employees) {
		t.Fatalf("expected %d employees, got %d", len(svc.employees), len(payload.Data.Employees))
	}

	rec = get(t, newTestRouter(t, &fakeService{err: fmt.Errorf("boom")}), "/api/v1/employees")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
