package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fixed(status Status) func(ctx context.Context) CheckResult {
	return func(ctx context.Context) CheckResult {
		return CheckResult{Status: status}
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		expected Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("coachlcd", "1.0.0")
			for i, s := range tt.statuses {
				registry.Register(NewChecker(string(rune('a'+i)), fixed(s)))
			}

			report := registry.Check(context.Background())
			if report.Status != tt.expected {
				t.Errorf("Status = %v, want %v", report.Status, tt.expected)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("Checks count = %v, want %v", len(report.Checks), len(tt.statuses))
			}
		})
	}
}

func TestRegistry_SortedAndNamed(t *testing.T) {
	registry := NewRegistry("coachlcd", "1.0.0")
	registry.Register(NewChecker("sweep", fixed(StatusHealthy)))
	registry.Register(NewChecker("source", fixed(StatusHealthy)))

	report := registry.Check(context.Background())
	if report.Checks[0].Name != "source" || report.Checks[1].Name != "sweep" {
		t.Errorf("checks = %+v, want sorted by name", report.Checks)
	}
	if report.Service != "coachlcd" || report.Version != "1.0.0" {
		t.Errorf("report header = %s %s", report.Service, report.Version)
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("coachlcd", "1.0.0")

	var counter int32
	for i := 0; i < 5; i++ {
		registry.Register(NewChecker("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			atomic.AddInt32(&counter, 1)
			time.Sleep(10 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		}))
	}

	start := time.Now()
	registry.Check(context.Background())
	duration := time.Since(start)

	if atomic.LoadInt32(&counter) != 5 {
		t.Errorf("Counter = %v, want 5", counter)
	}
	if duration > 200*time.Millisecond {
		t.Errorf("Duration = %v, expected concurrent execution", duration)
	}
}

func TestSourceCheck(t *testing.T) {
	ok := SourceCheck("source", func(ctx context.Context) error { return nil })
	if got := ok.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", got.Status)
	}

	broken := SourceCheck("source", func(ctx context.Context) error { return errors.New("database is locked") })
	got := broken.Check(context.Background())
	if got.Status != StatusUnhealthy || got.Message != "database is locked" {
		t.Errorf("result = %+v", got)
	}
}

func TestSweepCheck(t *testing.T) {
	tests := []struct {
		name     string
		last     time.Time
		expected Status
	}{
		{"never", time.Time{}, StatusDegraded},
		{"recent", time.Now(), StatusHealthy},
		{"stale", time.Now().Add(-time.Minute), StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := SweepCheck("sweep", func() time.Time { return tt.last }, 10*time.Second)
			if got := checker.Check(context.Background()); got.Status != tt.expected {
				t.Errorf("Status = %v, want %v (%s)", got.Status, tt.expected, got.Message)
			}
		})
	}
}

func TestRegistry_Handler(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected int
	}{
		{"healthy", StatusHealthy, http.StatusOK},
		{"degraded", StatusDegraded, http.StatusOK},
		{"unhealthy", StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("coachlcd", "1.0.0")
			registry.Register(NewChecker("source", fixed(tt.status)))

			rec := httptest.NewRecorder()
			registry.Handler(time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.expected {
				t.Errorf("code = %d, want %d", rec.Code, tt.expected)
			}
			var report Report
			if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
				t.Fatalf("body is not a report: %v", err)
			}
			if report.Status != tt.status {
				t.Errorf("Status = %v, want %v", report.Status, tt.status)
			}
		})
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{Service: "coachlcd", Status: StatusHealthy, Uptime: time.Hour, Checks: []CheckResult{{}, {}}}
	want := "Service: coachlcd, Status: healthy, Uptime: 1h0m0s, Checks: 2"
	if got := report.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
