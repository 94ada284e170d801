package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRunAggregatesWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all up", []Status{StatusUp, StatusUp}, StatusUp},
		{"degraded cache", []Status{StatusUp, StatusDegraded}, StatusDegraded},
		{"down wins over degraded", []Status{StatusDegraded, StatusDown}, StatusDown},
		{"no checks", nil, StatusUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			for i, st := range tt.statuses {
				st := st
				c.Register(string(rune('a'+i)), func(ctx context.Context) Result {
					return Result{Status: st}
				})
			}
			report := c.Run(context.Background())
			if report.Status != tt.want {
				t.Errorf("aggregate status = %s, want %s", report.Status, tt.want)
			}
			if len(report.Components) != len(tt.statuses) {
				t.Errorf("components = %d, want %d", len(report.Components), len(tt.statuses))
			}
		})
	}
}

func TestReadyHandlerReturns503WhenDegraded(t *testing.T) {
	c := NewChecker()
	c.Register("redis", func(ctx context.Context) Result {
		return Result{Status: StatusDegraded, Message: "not configured"}
	})

	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var report Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Components["redis"].Message != "not configured" {
		t.Errorf("component message = %q", report.Components["redis"].Message)
	}
}

func TestLiveHandlerAlwaysOK(t *testing.T) {
	c := NewChecker()
	c.Register("index", func(ctx context.Context) Result {
		return Result{Status: StatusDown}
	})

	rec := httptest.NewRecorder()
	c.LiveHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
