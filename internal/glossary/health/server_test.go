package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vietddude/glossary/internal/glossary/pipeline"
)

type stubProvider struct {
	status pipeline.Status
}

func (s stubProvider) Status() pipeline.Status { return s.status }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth_Running(t *testing.T) {
	s := NewServer(stubProvider{pipeline.Status{State: pipeline.StateGenerating, Processed: 2, Total: 5}}, nil, 0)

	rec := get(t, s.Handler(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["status"] != "healthy" || body["state"] != "generating" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestHealth_FailedRunIsCritical(t *testing.T) {
	s := NewServer(stubProvider{pipeline.Status{State: pipeline.StateFailed, LastError: "boom"}}, nil, 0)

	rec := get(t, s.Handler(), "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestHealthDetailed_DependencyDegraded(t *testing.T) {
	checks := map[string]Check{
		"database": func(context.Context) error { return errors.New("connection refused") },
		"redis":    func(context.Context) error { return nil },
	}
	s := NewServer(stubProvider{pipeline.Status{State: pipeline.StateDone, Processed: 3, Total: 3}}, checks, 0)

	rec := get(t, s.Handler(), "/health/detailed")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var report Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if report.SystemStatus != StatusDegraded {
		t.Errorf("expected degraded, got %s", report.SystemStatus)
	}
	if report.Dependencies["database"] != StatusDegraded || report.Dependencies["redis"] != StatusHealthy {
		t.Errorf("unexpected dependencies: %v", report.Dependencies)
	}
	if report.Run.Processed != 3 {
		t.Errorf("unexpected run status: %+v", report.Run)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(stubProvider{}, nil, 0)
	rec := get(t, s.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
