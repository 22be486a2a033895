package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/identity/component"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/server/endpoint"
)

func newTestServer(health ...component.Health) *Server {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0

	s := New(cfg, logger.Nop())
	checker := func(context.Context) []component.Health { return health }
	s.ApplyDefaults("identity", checker, endpoint.Gauges{"sessions_active": func() int { return 3 }})
	return s
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s: invalid JSON %q: %v", path, rr.Body.String(), err)
	}
	return rr, body
}

func TestHealth_Aggregation(t *testing.T) {
	tests := []struct {
		name       string
		components []component.Health
		wantCode   int
		wantStatus string
	}{
		{"all healthy", []component.Health{{Name: "database", Status: component.StatusHealthy}}, http.StatusOK, "healthy"},
		{"degraded", []component.Health{
			{Name: "database", Status: component.StatusHealthy},
			{Name: "redis", Status: component.StatusDegraded},
		}, http.StatusOK, "degraded"},
		{"unhealthy wins", []component.Health{
			{Name: "redis", Status: component.StatusDegraded},
			{Name: "secrets", Status: component.StatusUnhealthy},
		}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(tt.components...).Handler()
			rr, body := get(t, h, "/health")
			if rr.Code != tt.wantCode || body["status"] != tt.wantStatus {
				t.Errorf("got %d %v, want %d %s", rr.Code, body["status"], tt.wantCode, tt.wantStatus)
			}
			if comps, _ := body["components"].([]interface{}); len(comps) != len(tt.components) {
				t.Errorf("expected %d components, got %v", len(tt.components), body["components"])
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	h := newTestServer(component.Health{Name: "database", Status: component.StatusDegraded}).Handler()
	if rr, body := get(t, h, "/ready"); rr.Code != http.StatusOK || body["status"] != "ready" {
		t.Errorf("degraded should still be ready, got %d %v", rr.Code, body)
	}

	h = newTestServer(component.Health{Name: "database", Status: component.StatusUnhealthy}).Handler()
	if rr, body := get(t, h, "/ready"); rr.Code != http.StatusServiceUnavailable || body["status"] != "not_ready" {
		t.Errorf("expected not_ready, got %d %v", rr.Code, body)
	}
}

func TestAliveInfoMetrics(t *testing.T) {
	h := newTestServer().Handler()

	if _, body := get(t, h, "/alive"); body["status"] != "alive" {
		t.Errorf("unexpected liveness body %v", body)
	}

	rr, body := get(t, h, "/info")
	if body["service"] != "identity" || body["build"] == nil {
		t.Errorf("unexpected info body %v", body)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id header from middleware")
	}

	_, body = get(t, h, "/metrics")
	gauges, _ := body["gauges"].(map[string]interface{})
	if gauges["sessions_active"] != float64(3) {
		t.Errorf("expected sessions_active gauge, got %v", body["gauges"])
	}
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer()
	comp := NewComponent(s)
	ctx := context.Background()

	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %+v", h)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { comp.Stop(ctx) })

	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %+v", h)
	}

	resp, err := http.Get("http://" + s.Addr() + "/alive")
	if err != nil {
		t.Fatalf("GET /alive: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("unexpected address %q", cfg.Address())
	}

	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port out of range")
	}
}
