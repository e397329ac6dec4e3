package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]DependencyCheck
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all healthy",
			checks:     map[string]DependencyCheck{"database": ok, "mongodb": ok, "redis": ok},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "redis down",
			checks:     map[string]DependencyCheck{"database": ok, "mongodb": ok, "redis": down},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/health/ready", "")
			if err := NewHealthDependenciesHandler(tt.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			resp := decode(t, rec)
			if resp["status"] != tt.wantStatus {
				t.Fatalf("expected status %q, got %v", tt.wantStatus, resp["status"])
			}
			deps, _ := resp["dependencies"].(map[string]any)
			if len(deps) != len(tt.checks) {
				t.Fatalf("expected every dependency reported, got %v", deps)
			}
		})
	}
}

func TestHealthDependenciesHandler_ReportsError(t *testing.T) {
	checks := map[string]DependencyCheck{
		"mongodb": func(context.Context) error { return errors.New("server selection timeout") },
	}
	c, rec := newContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthDependenciesHandler(checks).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	deps, _ := decode(t, rec)["dependencies"].(map[string]any)
	mongo, _ := deps["mongodb"].(map[string]any)
	if mongo["status"] != "unhealthy" || mongo["error"] != "server selection timeout" {
		t.Fatalf("unexpected mongodb status: %+v", mongo)
	}
}
