package component

import (
	"context"
	"fmt"
	"testing"

	"github.com/kbukum/identity/logger"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func newRegistry() *Registry {
	return NewRegistry(logger.Nop())
}

func TestRegisterDuplicate(t *testing.T) {
	r := newRegistry()
	if err := r.Register(&mockComponent{name: "db"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "db"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := newRegistry()
	r.Register(&mockComponent{name: "db"})

	if got := r.Get("db"); got == nil || got.Name() != "db" {
		t.Fatalf("expected registered component, got %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Errorf("expected nil for missing component, got %v", got)
	}
}

func TestStartStopOrder(t *testing.T) {
	var started, stopped []string
	r := newRegistry()
	for _, name := range []string{"database", "redis", "grpc"} {
		r.Register(&mockComponent{name: name, startOrder: &started, stopOrder: &stopped})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if fmt.Sprint(started) != "[database redis grpc]" {
		t.Errorf("unexpected start order: %v", started)
	}

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if fmt.Sprint(stopped) != "[grpc redis database]" {
		t.Errorf("unexpected stop order: %v", stopped)
	}
}

func TestStartAllFailureStopsOnlyStarted(t *testing.T) {
	var started, stopped []string
	r := newRegistry()
	r.Register(&mockComponent{name: "a", startOrder: &started, stopOrder: &stopped})
	r.Register(&mockComponent{name: "b", startErr: fmt.Errorf("boom"), startOrder: &started, stopOrder: &stopped})
	r.Register(&mockComponent{name: "c", startOrder: &started, stopOrder: &stopped})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected start failure")
	}
	if fmt.Sprint(started) != "[a b]" {
		t.Errorf("expected start to halt at b, got %v", started)
	}

	r.StopAll(context.Background())
	if fmt.Sprint(stopped) != "[a]" {
		t.Errorf("expected only a to be stopped, got %v", stopped)
	}
}

func TestStopAllCollectsErrors(t *testing.T) {
	r := newRegistry()
	r.Register(&mockComponent{name: "a", stopErr: fmt.Errorf("a failed")})
	r.Register(&mockComponent{name: "b", stopErr: fmt.Errorf("b failed")})
	r.StartAll(context.Background())

	if err := r.StopAll(context.Background()); err == nil {
		t.Fatal("expected joined stop error")
	}
}

func TestHealthAll(t *testing.T) {
	r := newRegistry()
	r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded}})

	h := r.HealthAll(context.Background())
	if len(h) != 2 || h[1].Status != StatusDegraded {
		t.Errorf("unexpected health: %+v", h)
	}
}
