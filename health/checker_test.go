package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	err := errors.New("down")
	tests := []struct {
		name   string
		result Result
		want   Status
	}{
		{"healthy", Healthy("ok"), StatusHealthy},
		{"degraded", Degraded("slow"), StatusDegraded},
		{"unhealthy", Unhealthy("down", err), StatusUnhealthy},
	}
	for _, tt := range tests {
		if tt.result.Status != tt.want {
			t.Errorf("%s: Status = %v, want %v", tt.name, tt.result.Status, tt.want)
		}
		if tt.result.Timestamp.IsZero() {
			t.Errorf("%s: Timestamp should be set", tt.name)
		}
	}

	r := Healthy("ok").WithDetails(map[string]any{"rows": 3})
	if r.Details["rows"] != 3 {
		t.Errorf("Details = %v, want rows=3", r.Details)
	}
}

func TestPingFunc(t *testing.T) {
	up := PingFunc("storage", func(context.Context) error { return nil })
	if up.Name() != "storage" {
		t.Errorf("Name() = %q, want storage", up.Name())
	}
	if got := up.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("Check() status = %v, want healthy", got.Status)
	}

	pingErr := errors.New("connection refused")
	down := PingFunc("storage", func(context.Context) error { return pingErr })
	got := down.Check(context.Background())
	if got.Status != StatusUnhealthy || got.Error != pingErr {
		t.Errorf("Check() = %+v, want unhealthy with ping error", got)
	}
}
