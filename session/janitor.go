package session

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/identity/component"
	"github.com/kbukum/identity/logger"
)

// Janitor periodically sweeps expired sessions out of a Registry.
type Janitor struct {
	registry *Registry
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ component.Component = (*Janitor)(nil)

func NewJanitor(registry *Registry, interval time.Duration, log *logger.Logger) *Janitor {
	return &Janitor{registry: registry, interval: interval, log: log.WithComponent("session.janitor")}
}

func (j *Janitor) Name() string { return "session-janitor" }

func (j *Janitor) Start(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	j.done = make(chan struct{})
	go j.run(ctx, j.done)
	return nil
}

func (j *Janitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := j.registry.Sweep(now); n > 0 {
				j.log.Debug("Swept expired sessions", map[string]interface{}{
					"removed": n,
					"live":    j.registry.Len(),
				})
			}
		}
	}
}

func (j *Janitor) Stop(ctx context.Context) error {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Janitor) Health(_ context.Context) component.Health {
	j.mu.Lock()
	running := j.cancel != nil
	j.mu.Unlock()

	if !running {
		return component.Health{Name: j.Name(), Status: component.StatusUnhealthy, Message: "not running"}
	}
	return component.Health{Name: j.Name(), Status: component.StatusHealthy}
}
